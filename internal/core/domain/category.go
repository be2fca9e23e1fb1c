package domain

import "strings"

// Namespace is a MediaWiki namespace id.
type Namespace int

const (
	// NamespacePage is the main (article) namespace.
	NamespacePage Namespace = 0

	// NamespaceCategory is the category namespace.
	NamespaceCategory Namespace = 14
)

// String returns the namespace label used in logs and audit output.
func (n Namespace) String() string {
	switch n {
	case NamespacePage:
		return "PAGE"
	case NamespaceCategory:
		return "CATEGORY"
	default:
		return "OTHER"
	}
}

// MemberType selects which members a category listing returns.
type MemberType string

const (
	// MemberPages lists only pages.
	MemberPages MemberType = "page"

	// MemberSubcategories lists only subcategories.
	MemberSubcategories MemberType = "subcat"

	// MemberBoth lists pages and subcategories.
	MemberBoth MemberType = "page|subcat"
)

// IsValid returns true if the member type is recognised.
func (t MemberType) IsValid() bool {
	switch t {
	case MemberPages, MemberSubcategories, MemberBoth:
		return true
	default:
		return false
	}
}

// MemberQuery asks for one page of members of a category.
type MemberQuery struct {
	// Root is the category title, including the "Category:" prefix.
	Root string

	// Types filters the member namespaces. Empty means MemberBoth.
	Types MemberType

	// Continue is the opaque continuation token from the previous page.
	Continue string
}

// Member is a single entry of a category listing.
type Member struct {
	Title      string
	Namespace  Namespace
	RevisionID int64
}

// MemberPage is one page of category members plus the continuation token.
// An empty Continue means the listing is exhausted.
type MemberPage struct {
	Members  []Member
	Continue string
}

// CategoryNode is a node of the category graph as seen by a traversal.
// Identity is the title; Depth is the depth at which it was first reached.
type CategoryNode struct {
	Title     string
	Namespace Namespace
	Depth     int
}

// Candidate is a harvested page title.
// RevisionID is zero when the API did not report a revision.
type Candidate struct {
	Title          string
	RevisionID     int64
	SourceCategory string
	Depth          int
}

// HasRevision reports whether the revision id is known.
func (c Candidate) HasRevision() bool {
	return c.RevisionID > 0
}

// HarvestResult is the outcome of one traversal run.
type HarvestResult struct {
	// Candidates lists PAGE members in discovery order, one per title.
	Candidates []Candidate

	// Visited holds every title (page or category) seen during the run.
	Visited map[string]CategoryNode

	// NodesExpanded counts categories whose members were listed.
	NodesExpanded int

	// Failures counts categories whose listing ended on an API failure.
	Failures int
}

// CategoryPrefix is the title prefix of the category namespace.
const CategoryPrefix = "Category:"

// CategoryTitle prefixes name with "Category:" unless it already has it.
func CategoryTitle(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, CategoryPrefix) {
		return name
	}
	return CategoryPrefix + name
}
