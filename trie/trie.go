// Package trie implements the label-wise domain trie with
// match-strength subsumption: the central data structure of the
// pipeline. Every level is a hash map keyed by label bytes (TLD
// first); a node may carry a terminal domain.Record.
//
// Grounded on the original C driver's domaintree.c
// (insert_Domain/ctor_DomainTree/replace_DomainInfo) for the insertion
// protocol and dominance rule, and structurally on the teacher's
// trie.Trie/pools.NodeAllocator chunked-allocation idiom to amortize
// per-node allocation cost across a run that may insert millions of
// domains.
package trie

import (
	"fmt"
	"unsafe"

	"github.com/alphadose/haxmap"

	"github.com/babilon/dedup-domains/domain"
	"github.com/babilon/dedup-domains/label"
	"github.com/babilon/dedup-domains/pools"
)

// Node is one trie node. Label is owned (a copy of the label bytes,
// independent of any single record's lifetime); Children keys are
// borrowed views over each child's own owned Label (no extra copy);
// Parent exists only for diagnostics, never for ownership — children
// own nothing upward.
type Node struct {
	Label    []byte
	Parent   *Node
	Children *haxmap.Map[string, *Node]
	Record   *domain.Record
}

// Outcome reports what Insert did.
type Outcome int

const (
	Inserted Outcome = iota
	Replaced
	SkippedDominated
	SkippedDuplicate
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Replaced:
		return "replaced"
	case SkippedDominated:
		return "skipped-dominated"
	case SkippedDuplicate:
		return "skipped-duplicate"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Trie is the shared, single-owner domain trie. The pipeline holds
// the one *Trie; file contexts are handed it only to call Insert.
type Trie struct {
	root  *haxmap.Map[string, *Node]
	nodes *pools.NodeAllocator[Node]
	size  int
}

// New creates an empty trie.
func New() *Trie {
	return &Trie{
		root:  haxmap.New[string, *Node](),
		nodes: pools.NewNodeAllocator[Node](pools.DefaultChunkSize),
	}
}

// Size reports how many records Insert has installed as new entries
// (Inserted outcomes) since the trie was created or last drained.
// Records later released along with a subtree when a FULL record lands
// above them are still counted, Replaced upgrades add nothing, and
// pass-through nodes with no record of their own don't count.
func (t *Trie) Size() int {
	return t.size
}

// labelKey views b as a string with no extra allocation, matching the
// teacher's bytesToString zero-copy conversion in logparser/parser.go.
// Safe here because b is always a node's own owned (never mutated)
// label slice.
func labelKey(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// Insert installs rec at the trie position named by labels (TLD
// first, as produced by label.Split over rec.Domain), applying the
// dominance/subsumption protocol. Preconditions enforced here: rec's
// strength must be Weak or Full, and there must be at least one label;
// violating either is refused with an error, matching spec's "strength
// is NOTSET, strength is BOGUS" rejection cases (REGEX and BOGUS
// records never reach the trie — callers route REGEX to carryover.Set
// and drop BOGUS before calling Insert).
func (t *Trie) Insert(rec *domain.Record, labels []label.Label) (Outcome, error) {
	if rec.Strength != domain.Weak && rec.Strength != domain.Full {
		return Rejected, fmt.Errorf("trie: refusing insert with strength %s", rec.Strength)
	}
	if len(labels) == 0 {
		return Rejected, fmt.Errorf("trie: refusing insert with zero labels")
	}

	currentMap := t.root
	var node, parent *Node

	for i, lbl := range labels {
		key := labelKey(lbl.Bytes(rec.Domain))
		existing, ok := currentMap.Get(key)
		if !ok {
			t.attachChain(currentMap, parent, rec, labels, i)
			t.size++
			return Inserted, nil
		}

		last := i == len(labels)-1

		if existing.Record != nil {
			if existing.Record.Strength == domain.Full {
				return SkippedDominated, nil
			}
			// existing carries a WEAK record.
			if last {
				if rec.Strength > existing.Record.Strength {
					existing.Record = rec
					if rec.Strength == domain.Full {
						t.releaseSubtree(existing)
					}
					return Replaced, nil
				}
				return SkippedDuplicate, nil
			}
			// inbound is strictly deeper: the existing WEAK record
			// stays, fall through and keep descending.
		}

		parent = existing
		node = existing
		if i+1 < len(labels) {
			if existing.Children == nil {
				existing.Children = haxmap.New[string, *Node]()
			}
			currentMap = existing.Children
		}
	}

	// Every label matched an existing node; node has no record of its
	// own yet (otherwise the loop would have returned above).
	node.Record = rec
	t.size++
	if rec.Strength == domain.Full {
		t.releaseSubtree(node)
	}
	return Inserted, nil
}

// attachChain creates fresh nodes for labels[start:], linking the
// first into startMap, and installs rec on the deepest one.
func (t *Trie) attachChain(startMap *haxmap.Map[string, *Node], parent *Node, rec *domain.Record, labels []label.Label, start int) {
	m := startMap
	p := parent
	for i := start; i < len(labels); i++ {
		n := t.nodes.Get()
		n.Label = append([]byte(nil), labels[i].Bytes(rec.Domain)...)
		n.Parent = p
		m.Set(labelKey(n.Label), n)

		if i == len(labels)-1 {
			n.Record = rec
		} else {
			n.Children = haxmap.New[string, *Node]()
			m = n.Children
		}
		p = n
	}
}

// releaseSubtree drops node's entire child map, matching the
// invariant that a FULL-record node has no children. Individual node
// memory is reclaimed only when the whole trie (and its backing
// NodeAllocator chunks) is dropped — the same arena tradeoff the
// teacher's chunked IP-trie allocator makes, trading fine-grained free
// for allocation throughput.
func (t *Trie) releaseSubtree(n *Node) {
	n.Children = nil
}

// Drain performs the depth-first consolidation traversal: children
// first, then the node's own record (if any) via fn, then the node
// itself is released. After Drain returns, the trie is empty. Sibling
// visit order is unspecified (haxmap iteration order), matching
// spec's "final per-file emission sorts by line number anyway."
func (t *Trie) Drain(fn func(rec *domain.Record)) {
	t.root.ForEach(func(_ string, n *Node) bool {
		drainNode(n, fn)
		return true
	})
	t.root = haxmap.New[string, *Node]()
	t.size = 0
}

func drainNode(n *Node, fn func(rec *domain.Record)) {
	if n.Children != nil {
		n.Children.ForEach(func(_ string, c *Node) bool {
			drainNode(c, fn)
			return true
		})
		n.Children = nil
	}
	if n.Record != nil {
		fn(n.Record)
		n.Record = nil
	}
}
