package mdast

import "iter"

// All iterates over root and its descendants in document (pre-) order.
// Breaking out of the range loop stops the traversal.
func All(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		preorder(root, yield)
	}
}

func preorder(n *Node, yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for child := n.FirstChild; child != nil; child = child.Next {
		if !preorder(child, yield) {
			return false
		}
	}
	return true
}

// Lineage iterates from n up through its ancestors to the root, starting
// with n itself.
func Lineage(n *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for ; n != nil; n = n.Parent {
			if !yield(n) {
				return
			}
		}
	}
}

// FindFirst returns the first node in document order that matches
// predicate, or nil.
func FindFirst(root *Node, predicate func(*Node) bool) *Node {
	for n := range All(root) {
		if predicate(n) {
			return n
		}
	}
	return nil
}

// FindByKind returns every node of kind in document order.
func FindByKind(root *Node, kind NodeKind) []*Node {
	var nodes []*Node
	for n := range All(root) {
		if n.Kind == kind {
			nodes = append(nodes, n)
		}
	}
	return nodes
}
