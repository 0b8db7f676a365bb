// Package menu turns settings into the ordered tree shown in the tray.
package menu

import "github.com/cmdtray/cmdtray/internal/models"

// Node is a menu entry: a leaf that runs Command, or a submenu holding
// Children.
type Node struct {
	Label    string
	Command  string
	Children []Node
}

// IsSubmenu reports whether the node is a group submenu.
func (n Node) IsSubmenu() bool {
	return n.Children != nil
}

// Tree is the ordered list of top-level menu nodes built from the settings.
type Tree []Node

// Leaves counts leaf nodes at every depth.
func (t Tree) Leaves() int {
	n := 0
	for _, node := range t {
		if node.IsSubmenu() {
			n += Tree(node.Children).Leaves()
		} else {
			n++
		}
	}
	return n
}

// rootBucket is the reserved bucket key for entries without a group.
const rootBucket = ""

// Build groups commands into buckets by their group key and emits the buckets
// in the order they were first encountered. The reserved root bucket exists
// before scanning starts, so ungrouped entries always come first as flat
// leaves; each named group then becomes one submenu holding its entries in
// authored order. A group name never produces two submenus.
func Build(settings *models.Settings) Tree {
	if settings == nil {
		return Tree{}
	}

	order := []string{rootBucket}
	buckets := map[string][]Node{rootBucket: nil}

	for _, entry := range settings.Commands {
		leaf := Node{
			Label:   entry.DisplayLabel(),
			Command: entry.ShellCommand(),
		}

		key := entry.Group
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], leaf)
	}

	tree := make(Tree, 0, len(order))
	for _, key := range order {
		if key == rootBucket {
			tree = append(tree, buckets[key]...)
			continue
		}
		tree = append(tree, Node{Label: key, Children: buckets[key]})
	}
	return tree
}
