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

package http

import (
	"github.com/gofiber/fiber/v2"
)

const successCode = 200

type Response struct {
	Code   int    `json:"code"`
	Detail any    `json:"detail,omitempty"`
	Msg    string `json:"msg"`
}

type ResponseErr struct {
	ErrCode int    `json:"code"`
	ErrMsg  string `json:"errMsg"`
	Path    string `json:"path,omitempty"`
}

func WithRepJSON(c *fiber.Ctx, detail any) error {
	return c.JSON(Response{
		Code:   successCode,
		Detail: detail,
		Msg:    "success",
	})
}

func WithRepErr(c *fiber.Ctx, code int, errMsg string) error {
	return c.Status(code).JSON(ResponseErr{
		ErrCode: code,
		ErrMsg:  errMsg,
		Path:    c.Path(),
	})
}
