// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"cmp"
	"slices"
)

const DefaultMaxTreeDepth = 8

type TreeNode struct {
	Item     Item        `json:"item"`
	Children []*TreeNode `json:"children,omitempty"`
}

type SectionNode struct {
	Section Section     `json:"section"`
	Items   []*TreeNode `json:"items"`
}

func bySortOrder[T any](key func(T) (int, string)) func(a, b T) int {
	return func(a, b T) int {
		ao, aid := key(a)
		bo, bid := key(b)
		if c := cmp.Compare(ao, bo); c != 0 {
			return c
		}
		return cmp.Compare(aid, bid)
	}
}

var (
	sectionOrder = bySortOrder(func(s Section) (int, string) { return s.SortOrder, s.ID })
	itemOrder    = bySortOrder(func(i Item) (int, string) { return i.SortOrder, i.ID })
)

// SortedSections returns a copy of the sections ordered by sort_order.
func (m MenuData) SortedSections() []Section {
	out := slices.Clone(m.Sections)
	slices.SortStableFunc(out, sectionOrder)
	return out
}

// SectionItems returns the items of a section ordered by sort_order.
func (m MenuData) SectionItems(sectionID string) []Item {
	var out []Item
	for _, it := range m.Items {
		if it.SectionID == sectionID {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, itemOrder)
	return out
}

// Tree groups items under their sections and parents. Traversal never
// visits an item twice and stops below maxDepth, so malformed parent
// links (including cycles) cannot cause unbounded recursion. Items that
// only sit on a cycle have no root and are left out.
func (m MenuData) Tree(maxDepth int) []SectionNode {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxTreeDepth
	}

	known := make(map[string]struct{}, len(m.Items))
	for _, it := range m.Items {
		known[it.ID] = struct{}{}
	}

	children := make(map[string][]Item)
	roots := make(map[string][]Item)
	for _, it := range m.Items {
		if _, ok := known[it.ParentID]; it.ParentID != "" && ok {
			children[it.ParentID] = append(children[it.ParentID], it)
			continue
		}
		roots[it.SectionID] = append(roots[it.SectionID], it)
	}
	for _, list := range children {
		slices.SortStableFunc(list, itemOrder)
	}

	visited := make(map[string]bool, len(m.Items))
	var build func(it Item, depth int) *TreeNode
	build = func(it Item, depth int) *TreeNode {
		visited[it.ID] = true
		node := &TreeNode{Item: it}
		if depth >= maxDepth {
			return node
		}
		for _, child := range children[it.ID] {
			if visited[child.ID] {
				continue
			}
			node.Children = append(node.Children, build(child, depth+1))
		}
		return node
	}

	sections := m.SortedSections()
	out := make([]SectionNode, 0, len(sections))
	for _, s := range sections {
		list := roots[s.ID]
		slices.SortStableFunc(list, itemOrder)
		node := SectionNode{Section: s, Items: []*TreeNode{}}
		for _, it := range list {
			if visited[it.ID] {
				continue
			}
			node.Items = append(node.Items, build(it, 1))
		}
		out = append(out, node)
	}
	return out
}

// Active keeps active sections and the active items that belong to them.
func (m MenuData) Active() MenuData {
	out := MenuData{Success: m.Success, Metadata: m.Metadata}
	active := make(map[string]struct{}, len(m.Sections))
	for _, s := range m.Sections {
		if s.IsActive {
			out.Sections = append(out.Sections, s)
			active[s.ID] = struct{}{}
		}
	}
	for _, it := range m.Items {
		if _, ok := active[it.SectionID]; ok && it.IsActive {
			out.Items = append(out.Items, it)
		}
	}
	return out
}
