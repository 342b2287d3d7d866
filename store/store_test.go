package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeeded_ReturnsSeedContent(t *testing.T) {
	st := NewSeeded()

	require.Equal(t, 6, st.Len())
	for id, want := range Seed() {
		got, err := st.Get(id)
		require.NoError(t, err, id)
		assert.Equal(t, want, got, id)
	}
}

func TestSeed_Verbatim(t *testing.T) {
	seed := Seed()

	assert.Equal(t, "The plan outlines the steps for the project's implementation.", seed["plan.md"])
	assert.Equal(t, "This deposition covers the testimony of Angela Smith, P.E.", seed["deposition.md"])
	assert.Equal(t, "The report details the state of a 20m condenser tower.", seed["report.pdf"])
	assert.Equal(t, "These financials outline the project's budget and expenditures.", seed["financials.docx"])
	assert.Equal(t, "This document presents the projected future performance of the system.", seed["outlook.pdf"])
	assert.Equal(t, "These specifications define the technical requirements for the equipment.", seed["spec.txt"])
}

func TestSeed_ReturnsCopy(t *testing.T) {
	seed := Seed()
	seed["plan.md"] = "changed"

	assert.NotEqual(t, "changed", Seed()["plan.md"])

	st := NewSeeded()
	got, err := st.Get("plan.md")
	require.NoError(t, err)
	assert.NotEqual(t, "changed", got)
}

func TestNew_CopiesSeed(t *testing.T) {
	seed := map[string]string{"a.txt": "alpha"}
	st := New(seed)
	seed["a.txt"] = "mutated"
	seed["b.txt"] = "beta"

	got, err := st.Get("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got)
	assert.False(t, st.Has("b.txt"))
}

func TestGet_NotFound(t *testing.T) {
	st := NewSeeded()

	_, err := st.Get("missing.txt")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "missing.txt")
}

func TestSet(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		content string
		wantErr error
	}{
		{name: "existing document", id: "spec.txt", content: "new body"},
		{name: "empty content", id: "plan.md", content: ""},
		{name: "unknown id", id: "new.md", content: "x", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewSeeded()
			err := st.Set(tt.id, tt.content)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.False(t, st.Has(tt.id), "Set must not create documents")
				assert.Equal(t, 6, st.Len())
				return
			}
			require.NoError(t, err)
			got, err := st.Get(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.content, got)
		})
	}
}

func TestIDs_Sorted(t *testing.T) {
	st := NewSeeded()

	assert.Equal(t, []string{
		"deposition.md",
		"financials.docx",
		"outlook.pdf",
		"plan.md",
		"report.pdf",
		"spec.txt",
	}, st.IDs())
}

func TestSnapshot_IsCopy(t *testing.T) {
	st := NewSeeded()
	snap := st.Snapshot()
	require.Len(t, snap, 6)
	assert.Equal(t, "deposition.md", snap[0].ID)

	snap[0].Content = "changed"
	got, err := st.Get("deposition.md")
	require.NoError(t, err)
	assert.NotEqual(t, "changed", got)
}

func TestConcurrentAccess(t *testing.T) {
	st := NewSeeded()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = st.Set("plan.md", fmt.Sprintf("rev %d", i))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = st.Get("plan.md")
			_ = st.Snapshot()
		}()
	}
	wg.Wait()

	assert.Equal(t, 6, st.Len())
	assert.True(t, st.Has("plan.md"))
}
