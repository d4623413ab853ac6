// This is free and unencumbered software released into the public domain.
//
// Anyone is free to copy, modify, publish, use, compile, sell, or
// distribute this software, either in source code form or as a compiled
// binary, for any purpose, commercial or non-commercial, and by any
// means.
//
// In jurisdictions that recognize copyright laws, the author or authors
// of this software dedicate any and all copyright interest in the
// software to the public domain. We make this dedication for the benefit
// of the public at large and to the detriment of our heirs and
// successors. We intend this dedication to be an overt act of
// relinquishment in perpetuity of all present and future rights to this
// software under copyright law.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
// IN NO EVENT SHALL THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR
// OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
// ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.
//
// For more information, please refer to <https://unlicense.org>

package cmt

import "errors"

// errMissingChild is a caller-bug panic payload: rotating a node that
// lacks the child the rotation pivots on is never something the engine
// itself can trigger, since it only rotates on a heap-order violation it
// has already confirmed against an existing child.
var errMissingChild = errors.New("cmt: rotation requires the pivot child to be present")

//   rotateRight(x):
//
//        x              y
//       / \            / \
//      y   C   -->    A   x
//     / \                 / \
//    A   B               B   C
//
// y (x.Left) rises to become the new local root; x sinks to become y's
// right child, keeping B (previously y's right subtree) as x's new left
// child. BST order is preserved because B already sat between A and x.
func rotateRight(x *Node) *Node {
	if x == nil || x.Left == nil {
		panic(errMissingChild)
	}
	y := x.Left
	x.Left = y.Right
	y.Right = x

	// Refresh the sinking node (x) first, then the rising node (y),
	// since y's hash depends on x's freshly recomputed one.
	x.refreshHash()
	y.refreshHash()
	return y
}

//   rotateLeft(x):
//
//        x                 y
//       / \               / \
//      A   y     -->     x   C
//         / \            / \
//        B   C          A   B
//
// Mirror image of rotateRight: x's right child rises, x sinks to become
// its new left child.
func rotateLeft(x *Node) *Node {
	if x == nil || x.Right == nil {
		panic(errMissingChild)
	}
	y := x.Right
	x.Right = y.Left
	y.Left = x

	x.refreshHash()
	y.refreshHash()
	return y
}
