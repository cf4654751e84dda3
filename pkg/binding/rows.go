package binding

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formbind/pkg/dom"
	"github.com/goliatone/go-formbind/pkg/naming"
)

// IndexRows stamps every grouped leaf under scope with the zero-based index
// of its row. Each group container is resolved as the nearest ancestor whose
// id equals the group id, scope included; containers above scope are not
// considered. Rows are the container's direct children except
// the template holder; a row without a leaf of its group takes no index, so
// indices stay contiguous. Indices are recomputed on every call.
func (b *Binder) IndexRows(scope *html.Node) error {
	if err := checkScope("index rows", scope); err != nil {
		return err
	}

	type group struct {
		id        string
		container *html.Node
	}
	var groups []group
	seen := map[*html.Node]map[string]bool{}

	for _, leaf := range b.leaves(scope, false) {
		id := b.identifier(leaf)
		desc := naming.Parse(id)
		if !desc.Grouped() {
			continue
		}
		container := closestContainer(scope, leaf, desc.GroupID)
		if container == nil {
			return &Error{Op: "index rows", Key: id, Err: ErrContainerNotFound}
		}
		if seen[container] == nil {
			seen[container] = map[string]bool{}
		}
		if !seen[container][desc.GroupID] {
			seen[container][desc.GroupID] = true
			groups = append(groups, group{id: desc.GroupID, container: container})
		}
	}

	for _, g := range groups {
		b.indexContainer(g.container, g.id)
	}
	return nil
}

func (b *Binder) indexContainer(container *html.Node, groupID string) {
	idx := 0
	for _, row := range dom.Children(container) {
		if isHolder(row) {
			continue
		}
		var members []*html.Node
		for _, leaf := range b.leaves(row, true) {
			if naming.InGroup(b.identifier(leaf), groupID) {
				members = append(members, leaf)
			}
		}
		if len(members) == 0 {
			continue
		}
		marker := strconv.Itoa(idx)
		for _, leaf := range members {
			dom.SetAttr(leaf, b.attrs.RowIndex, marker)
		}
		idx++
	}
}

// closestContainer walks the ancestors of n, n excluded, up to and including
// scope for id == groupID.
func closestContainer(scope, n *html.Node, groupID string) *html.Node {
	if n == nil || n == scope {
		return nil
	}
	return dom.ClosestWithin(scope, n.Parent, dom.AttrEquals("id", groupID))
}

// isHolder reports whether n is an inert template holder.
func isHolder(n *html.Node) bool {
	return dom.IsTag(n, "script") || dom.IsTag(n, "template")
}

// holder returns the first template holder among the direct children of
// container.
func holder(container *html.Node) *html.Node {
	for _, child := range dom.Children(container) {
		if isHolder(child) {
			return child
		}
	}
	return nil
}

// holderMarkup returns the row markup held by h.
func holderMarkup(h *html.Node) string {
	if dom.IsTag(h, "template") {
		return dom.InnerHTML(h)
	}
	return dom.TextContent(h)
}
