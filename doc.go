// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package patch creates line based patches and applies them to text that may have changed since
// the patch was created.
//
// A patch is a list of [Hunk] values. [Hunks] and [Diff] create them by comparing two lists of
// lines, [Parse] reads them from the hunk file format and [File.Format] writes them:
//
//	--- a/file.txt
//	+++ b/file.txt
//	@@ -1,3 +1,3 @@
//	 first
//	-second
//	+2nd
//	 third
//
// A [Patcher] applies hunks. Unlike the Unix patch tool, it reports per hunk whether and how it
// was applied and never modifies lines already changed by another hunk. Depending on the [Mode], a
// hunk that doesn't apply at its expected location is searched for an exact copy of its context
// elsewhere ([Offset]) or for an approximate match of its context ([Fuzzy]).
//
// For a text based API, please see [znkr.io/patch/textpatch].
//
// [znkr.io/patch/textpatch]: https://pkg.go.dev/znkr.io/patch/textpatch
package patch
