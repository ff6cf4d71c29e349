package topics

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-batches/internal/db"
)

func TestClean(t *testing.T) {
	got := Clean([]Topic{
		{Title: "  Loops ", Description: " for/while "},
		{Title: "   ", Description: "ignored"},
		{Title: "Functions"},
	})
	require.Equal(t, []Topic{
		{Title: "Loops", Description: "for/while"},
		{Title: "Functions"},
	}, got)
}

func TestDefaults_ReturnsCopy(t *testing.T) {
	d := Defaults()
	require.Len(t, d, 7)
	require.Equal(t, "Python Data Types and Variables", d[0].Title)
	d[0].Title = "changed"
	require.Equal(t, "Python Data Types and Variables", Defaults()[0].Title)
}

func TestParse(t *testing.T) {
	t.Run("bare yaml list", func(t *testing.T) {
		list, err := Parse([]byte("- title: A\n  description: first\n- title: B\n"))
		require.NoError(t, err)
		require.Equal(t, []string{"A", "B"}, Titles(list))
		require.Equal(t, "first", list[0].Description)
	})

	t.Run("mapping with topics key", func(t *testing.T) {
		list, err := Parse([]byte("topics:\n  - title: A\n  - title: ''\n  - title: C\n"))
		require.NoError(t, err)
		require.Equal(t, []string{"A", "C"}, Titles(list))
	})

	t.Run("json array", func(t *testing.T) {
		list, err := Parse([]byte(`[{"title":"A","description":"x"},{"title":"B"}]`))
		require.NoError(t, err)
		require.Equal(t, []string{"A", "B"}, Titles(list))
	})

	t.Run("empty document", func(t *testing.T) {
		list, err := Parse(nil)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("scalar is rejected", func(t *testing.T) {
		_, err := Parse([]byte("just a string"))
		require.Error(t, err)
	})
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "topics.yaml")
	want := []Topic{{Title: "A", Description: "first"}, {Title: "B"}}

	require.NoError(t, WriteFile(path, want))
	got, err := LoadFile(path)

	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore([]Topic{{Title: "A"}})

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"A"}, Titles(list))

	list[0].Title = "mutated"
	again, _ := s.List(ctx)
	require.Equal(t, "A", again[0].Title)

	require.NoError(t, s.Replace(ctx, []Topic{{Title: "X"}, {Title: ""}, {Title: "Y"}}))
	list, _ = s.List(ctx)
	require.Equal(t, []string{"X", "Y"}, Titles(list))
}

func TestSQLStore(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:topics_store_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer dbh.Close()
	s := NewSQLStore(dbh)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	require.NoError(t, s.Replace(ctx, []Topic{{Title: "B", Description: "two"}, {Title: "A"}}))
	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []Topic{{Title: "B", Description: "two"}, {Title: "A"}}, list)

	require.NoError(t, s.Replace(ctx, []Topic{{Title: "C"}}))
	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"C"}, Titles(list))
}

func TestResolver(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "topics.yaml")
	require.NoError(t, os.WriteFile(file, []byte("- title: FromFile\n"), 0o644))

	t.Run("explicit wins", func(t *testing.T) {
		r := Resolver{Store: NewInMemoryStore([]Topic{{Title: "FromStore"}}), File: file, UseDefaults: true}
		list, err := r.Resolve(ctx, []Topic{{Title: "Explicit"}})
		require.NoError(t, err)
		require.Equal(t, []string{"Explicit"}, Titles(list))
	})

	t.Run("store before file", func(t *testing.T) {
		r := Resolver{Store: NewInMemoryStore([]Topic{{Title: "FromStore"}}), File: file}
		list, err := r.Resolve(ctx, []Topic{{Title: "  "}})
		require.NoError(t, err)
		require.Equal(t, []string{"FromStore"}, Titles(list))
	})

	t.Run("file when store is empty", func(t *testing.T) {
		r := Resolver{Store: NewInMemoryStore(nil), File: file}
		list, err := r.Resolve(ctx, nil)
		require.NoError(t, err)
		require.Equal(t, []string{"FromFile"}, Titles(list))
	})

	t.Run("defaults last", func(t *testing.T) {
		list, err := Resolver{UseDefaults: true}.Resolve(ctx, nil)
		require.NoError(t, err)
		require.Len(t, list, 7)
	})

	t.Run("nothing configured", func(t *testing.T) {
		list, err := Resolver{}.Resolve(ctx, nil)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := Resolver{File: filepath.Join(t.TempDir(), "missing.yaml")}.Resolve(ctx, nil)
		require.Error(t, err)
	})
}
