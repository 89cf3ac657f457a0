package harness

import (
	"fmt"

	"github.com/roach88/procsim/internal/sim"
)

// CheckInvariants verifies the structural invariants of the process tree
// and returns a description of every violation found. An empty result
// means the tree is well-formed.
//
// Checked after every scenario step, so a transition that corrupts the
// tree is caught at the step that introduced it, not at the end.
//
// Invariants:
//  1. Rooted tree: every node except init is reachable from init by
//     children links, and following ppid links from any node reaches init
//     without revisiting a node (no cycles).
//  2. Pids are unique (guaranteed by the arena keying; checked here via
//     the children index: no pid appears under two parents).
//  3. A node's children list contains exactly the nodes whose ppid equals
//     the node's pid.
//  4. depth(child) = depth(parent) + 1 for all non-orphan, non-root
//     children (orphans keep their birth depth).
//  5. Init exists, has pid 1, ppid 0, and is always running.
func CheckInvariants(e *sim.Engine) []string {
	var violations []string

	init := e.Init()
	if init == nil {
		// Before CreateRoot there is no tree and nothing to check.
		return nil
	}

	if init.PPid != 0 || init.State != sim.StateRunning {
		violations = append(violations,
			fmt.Sprintf("init must have ppid 0 and state running, has ppid %d state %s", init.PPid, init.State))
	}

	all := e.AllNodes()

	// Children index agrees with ppid links, and no child is shared.
	seenAsChild := make(map[int]int) // child pid -> parent pid
	for _, p := range all {
		for _, cpid := range p.Children {
			c := e.FindByPid(cpid)
			if c == nil {
				violations = append(violations,
					fmt.Sprintf("process %d lists missing child %d", p.Pid, cpid))
				continue
			}
			if prev, dup := seenAsChild[cpid]; dup {
				violations = append(violations,
					fmt.Sprintf("process %d is a child of both %d and %d", cpid, prev, p.Pid))
			}
			seenAsChild[cpid] = p.Pid

			if c.PPid != p.Pid {
				violations = append(violations,
					fmt.Sprintf("process %d is listed under %d but has ppid %d", cpid, p.Pid, c.PPid))
			}

			// Orphans and zombies left behind by an exited parent keep
			// their original depth; everything else steps down by one.
			if c.State != sim.StateOrphan && p.Pid != sim.InitPid && c.Depth != p.Depth+1 {
				violations = append(violations,
					fmt.Sprintf("process %d has depth %d, expected %d (parent %d depth %d)",
						cpid, c.Depth, p.Depth+1, p.Pid, p.Depth))
			}
		}
	}

	// Every node except init is reachable from init (AllNodes is the
	// preorder from init) and its ppid resolves to an existing node.
	reachable := make(map[int]bool, len(all))
	for _, p := range all {
		reachable[p.Pid] = true
	}
	if len(reachable) != e.Size() {
		violations = append(violations,
			fmt.Sprintf("%d nodes in arena but %d reachable from init", e.Size(), len(reachable)))
	}

	// No node is its own ancestor: walk ppid links with a step bound.
	for _, p := range all {
		if p.Pid == sim.InitPid {
			continue
		}
		steps := 0
		cur := p
		for cur != nil && cur.Pid != sim.InitPid {
			if steps > e.Size() {
				violations = append(violations,
					fmt.Sprintf("ppid chain from process %d does not terminate", p.Pid))
				break
			}
			cur = e.FindByPid(cur.PPid)
			steps++
		}
	}

	return violations
}
