package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByPid(t *testing.T) {
	e := newTestEngine()
	e.CreateRoot()

	assert.NotNil(t, e.FindByPid(1001))
	assert.NotNil(t, e.FindByPid(InitPid))
	assert.Nil(t, e.FindByPid(12345))
}

func TestAllNodes_PreorderInForkOrder(t *testing.T) {
	e := newTestEngine()
	e.CreateRoot()
	c1, _ := e.ForkOne(1001) // 1002
	c2, _ := e.ForkOne(1001) // 1003
	g1, _ := e.ForkOne(c1.Pid) // 1004

	var pids []int
	for _, p := range e.AllNodes() {
		pids = append(pids, p.Pid)
	}
	assert.Equal(t, []int{InitPid, 1001, c1.Pid, g1.Pid, c2.Pid}, pids)
}

func TestAllRunning_IncludesOrphansExcludesInit(t *testing.T) {
	e := newTestEngine()
	e.CreateRoot()
	child, _ := e.ForkOne(1001)
	require.NoError(t, e.Exit(1001)) // child orphaned

	var pids []int
	for _, p := range e.AllRunning() {
		pids = append(pids, p.Pid)
	}
	assert.Equal(t, []int{child.Pid}, pids, "orphan is schedulable, init and terminated are not")
}

func TestAllRunning_ExcludesWaitingAndZombie(t *testing.T) {
	e := newTestEngine()
	e.CreateRoot()
	c1, _ := e.ForkOne(1001)
	c2, _ := e.ForkOne(1001)
	_, err := e.Wait(1001) // root -> waiting
	require.NoError(t, err)
	require.NoError(t, e.Exit(c1.Pid)) // collected: terminated (parent waiting, c2 still active)

	running := e.AllRunning()
	require.Len(t, running, 1)
	assert.Equal(t, c2.Pid, running[0].Pid)
}

func TestAncestorChain(t *testing.T) {
	e := newTestEngine()
	e.CreateRoot()
	c, _ := e.ForkOne(1001)
	g, _ := e.ForkOne(c.Pid)

	tests := []struct {
		name string
		pid  int
		want []int
	}{
		{"root", 1001, []int{1001}},
		{"child", c.Pid, []int{1001, c.Pid}},
		{"grandchild", g.Pid, []int{1001, c.Pid, g.Pid}},
		{"init has no chain", InitPid, nil},
		{"unknown pid", 4711, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.AncestorChain(tt.pid))
		})
	}
}

func TestAncestorChain_LengthIsDepthPlusOne(t *testing.T) {
	e := newTestEngine()
	e.CreateRoot()
	pid := 1001
	for i := 0; i < 4; i++ {
		c, err := e.ForkOne(pid)
		require.NoError(t, err)
		pid = c.Pid
	}

	p := e.FindByPid(pid)
	chain := e.AncestorChain(pid)
	assert.Len(t, chain, p.Depth+1)
	assert.Equal(t, pid, chain[len(chain)-1])
}

func TestAncestorChain_OrphanChainStartsAtOrphan(t *testing.T) {
	e := newTestEngine()
	e.CreateRoot()
	c, _ := e.ForkOne(1001)
	g, _ := e.ForkOne(c.Pid)
	require.NoError(t, e.Exit(c.Pid))

	// c zombied under the running root; g was adopted by init.
	require.Equal(t, StateOrphan, e.FindByPid(g.Pid).State)
	assert.Equal(t, []int{g.Pid}, e.AncestorChain(g.Pid), "ppid link leads to init, which ends the chain")
}

func TestReset_ClearsEverything(t *testing.T) {
	e := newTestEngine()
	e.CreateRoot()
	e.ForkAll()

	e.Reset()

	assert.Equal(t, 0, e.Size())
	assert.Nil(t, e.Root())
	assert.Nil(t, e.Init())
	assert.Empty(t, e.Log())
	assert.Empty(t, e.History().Events())
	assert.Equal(t, int64(0), e.Clock().Current())
	assert.Equal(t, 0, e.ForkLevel())
}

func TestNoPidReuseWithinSession(t *testing.T) {
	e := newTestEngine()
	e.CreateRoot()
	e.ForkAll()
	e.ForkAll()

	seen := make(map[int]bool)
	for _, p := range e.AllNodes() {
		assert.False(t, seen[p.Pid], "pid %d assigned twice", p.Pid)
		seen[p.Pid] = true
	}
}
