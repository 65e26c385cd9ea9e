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

package log

func Info(args ...any) {
	get().Info(args...)
}

func Infof(format string, args ...any) {
	get().Infof(format, args...)
}

func Infow(msg string, keysAndValues ...any) {
	get().Infow(msg, keysAndValues...)
}

func Debug(args ...any) {
	get().Debug(args...)
}

func Debugf(format string, args ...any) {
	get().Debugf(format, args...)
}

func Debugw(msg string, keysAndValues ...any) {
	get().Debugw(msg, keysAndValues...)
}

func Warn(args ...any) {
	get().Warn(args...)
}

func Warnf(format string, args ...any) {
	get().Warnf(format, args...)
}

func Warnw(msg string, keysAndValues ...any) {
	get().Warnw(msg, keysAndValues...)
}

func Error(args ...any) {
	get().Error(args...)
}

func Errorf(format string, args ...any) {
	get().Errorf(format, args...)
}

func Errorw(msg string, keysAndValues ...any) {
	get().Errorw(msg, keysAndValues...)
}

func Fatal(args ...any) {
	get().Fatal(args...)
}

func Fatalf(format string, args ...any) {
	get().Fatalf(format, args...)
}

// Sync flushes any buffered entries.
func Sync() error {
	return get().Sync()
}
