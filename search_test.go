package sharepoint

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestNormalizeSuffix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"with dot", ".csv", ".csv", false},
		{"without dot", "csv", ".csv", false},
		{"multi dot", ".tar.gz", ".tar.gz", false},
		{"empty", "", "", true},
		{"bare dot", ".", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeSuffix(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrEmptySuffix)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMatchesSuffix(t *testing.T) {
	assert.True(t, matchesSuffix("report.csv", ".csv"))
	assert.True(t, matchesSuffix("archive.tar.gz", ".tar.gz"))
	assert.False(t, matchesSuffix("report.txt", ".csv"))

	// Case-sensitive.
	assert.False(t, matchesSuffix("REPORT.CSV", ".csv"))

	// Composed and decomposed spellings compare equal after NFC.
	decomposed := "café.csv"
	composed := "é.csv"
	assert.True(t, matchesSuffix(decomposed, norm.NFC.String(composed)))
}

const testSearchListingJSON = `{
	"value": [
		{"id":"1","name":"q1.csv","size":10,"parentReference":{"id":"p","driveId":"drive-1","path":"/drives/drive-1/root:"},"file":{}},
		{"id":"2","name":"notes.txt","size":5,"parentReference":{"id":"p","driveId":"drive-1","path":"/drives/drive-1/root:"},"file":{}},
		{"id":"3","name":"q2.csv","size":12,"parentReference":{"id":"p","driveId":"drive-1","path":"/drives/drive-1/root:"},"file":{}},
		{"id":"4","name":"exports.csv","parentReference":{"id":"p","driveId":"drive-1","path":"/drives/drive-1/root:"},"folder":{"childCount":2}},
		{"id":"5","name":"archive.old","parentReference":{"id":"p","driveId":"drive-1","path":"/drives/drive-1/root:"},"folder":{"childCount":0}}
	]
}`

func newSearchServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sites/site-1/drives/drive-1/root/children", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, testSearchListingJSON)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestSearchFilesBySuffix(t *testing.T) {
	srv := newSearchServer(t)

	m := newTestManager(t, srv.URL)
	matches, err := m.SearchFilesBySuffix(context.Background(), ".csv", "")
	require.NoError(t, err)

	// Files only, in listing order. The "exports.csv" folder is excluded.
	require.Len(t, matches, 2)
	assert.Equal(t, "q1.csv", matches[0].Name)
	assert.Equal(t, "q2.csv", matches[1].Name)
	assert.Equal(t, "/q1.csv", matches[0].Path)
}

func TestSearchFilesBySuffix_DotOptional(t *testing.T) {
	srv := newSearchServer(t)

	m := newTestManager(t, srv.URL)

	withDot, err := m.SearchFilesBySuffix(context.Background(), ".csv", "")
	require.NoError(t, err)

	withoutDot, err := m.SearchFilesBySuffix(context.Background(), "csv", "")
	require.NoError(t, err)

	assert.Equal(t, withDot, withoutDot)
}

func TestSearchFilesBySuffix_EmptySuffix(t *testing.T) {
	srv := trapServer(t)

	m := newTestManager(t, srv.URL)

	_, err := m.SearchFilesBySuffix(context.Background(), "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptySuffix)

	_, err = m.SearchFilesBySuffix(context.Background(), ".", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptySuffix)
}

func TestSearchFoldersBySuffix(t *testing.T) {
	srv := newSearchServer(t)

	m := newTestManager(t, srv.URL)
	matches, err := m.SearchFoldersBySuffix(context.Background(), ".csv", "")
	require.NoError(t, err)

	// Folders only: the "exports.csv" folder, not the csv files.
	require.Len(t, matches, 1)
	assert.Equal(t, "exports.csv", matches[0].Name)
}

func TestSearchFilesBySuffix_NoMatches(t *testing.T) {
	srv := newSearchServer(t)

	m := newTestManager(t, srv.URL)
	matches, err := m.SearchFilesBySuffix(context.Background(), ".pdf", "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchFilesBySuffix_UnicodeEquivalence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// "cafe" + combining acute: the decomposed spelling of "café".
		fmt.Fprintf(w,
			`{"value": [{"id":"u1","name":%q,"parentReference":{"id":"p","driveId":"drive-1","path":"/drives/drive-1/root:"},"file":{}}]}`,
			"café.csv",
		)
	}))
	defer srv.Close()

	m := newTestManager(t, srv.URL)

	// Composed suffix matches the decomposed name.
	matches, err := m.SearchFilesBySuffix(context.Background(), "é.csv", "")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "café.csv", matches[0].Name)
}

// newTreeServer serves a two-level tree:
//
//	/ (root): a.csv, sub/
//	/sub:     b.csv, c.txt
func newTreeServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /sites/site-1/drives/drive-1/root/children", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"value": [
				{"id":"a","name":"a.csv","parentReference":{"id":"root-id","driveId":"drive-1","path":"/drives/drive-1/root:"},"file":{}},
				{"id":"s","name":"sub","parentReference":{"id":"root-id","driveId":"drive-1","path":"/drives/drive-1/root:"},"folder":{"childCount":2}}
			]
		}`)
	})

	mux.HandleFunc("GET /sites/site-1/drives/drive-1/root:/sub:/children", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"value": [
				{"id":"b","name":"b.csv","parentReference":{"id":"s","driveId":"drive-1","path":"/drives/drive-1/root:/sub"},"file":{}},
				{"id":"c","name":"c.txt","parentReference":{"id":"s","driveId":"drive-1","path":"/drives/drive-1/root:/sub"},"file":{}}
			]
		}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestSearchFilesBySuffixRecursive(t *testing.T) {
	srv := newTreeServer(t)

	m := newTestManager(t, srv.URL)
	matches, err := m.SearchFilesBySuffixRecursive(context.Background(), ".csv", "")
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, "/a.csv", matches[0].Path)
	assert.Equal(t, "/sub/b.csv", matches[1].Path)
}

func TestSearchFilesBySuffixRecursive_LevelBeforeDepth(t *testing.T) {
	// The subfolder is listed before the matching file. Matches within a
	// folder must still precede matches from inside its subfolders.
	mux := http.NewServeMux()

	mux.HandleFunc("GET /sites/site-1/drives/drive-1/root/children", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"value": [
				{"id":"s","name":"sub","parentReference":{"id":"r","driveId":"drive-1","path":"/drives/drive-1/root:"},"folder":{"childCount":1}},
				{"id":"z","name":"z.csv","parentReference":{"id":"r","driveId":"drive-1","path":"/drives/drive-1/root:"},"file":{}}
			]
		}`)
	})

	mux.HandleFunc("GET /sites/site-1/drives/drive-1/root:/sub:/children", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"value": [
				{"id":"a","name":"a.csv","parentReference":{"id":"s","driveId":"drive-1","path":"/drives/drive-1/root:/sub"},"file":{}}
			]
		}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := newTestManager(t, srv.URL)
	matches, err := m.SearchFilesBySuffixRecursive(context.Background(), ".csv", "")
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, "/z.csv", matches[0].Path)
	assert.Equal(t, "/sub/a.csv", matches[1].Path)
}

func TestSearchFilesBySuffixRecursive_Subfolder(t *testing.T) {
	// Seeding the search below the root only touches that subtree.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sites/site-1/drives/drive-1/root:/sub:/children", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"value": [
				{"id":"b","name":"b.csv","parentReference":{"id":"s","driveId":"drive-1","path":"/drives/drive-1/root:/sub"},"file":{}}
			]
		}`)
	}))
	defer srv.Close()

	m := newTestManager(t, srv.URL)
	matches, err := m.SearchFilesBySuffixRecursive(context.Background(), "csv", "sub")
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "/sub/b.csv", matches[0].Path)
}

func TestSearchFoldersBySuffixRecursive(t *testing.T) {
	// A matching folder is reported and still descended into.
	mux := http.NewServeMux()

	mux.HandleFunc("GET /sites/site-1/drives/drive-1/root/children", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"value": [
				{"id":"bo","name":"backup.old","parentReference":{"id":"r","driveId":"drive-1","path":"/drives/drive-1/root:"},"folder":{"childCount":1}},
				{"id":"da","name":"data","parentReference":{"id":"r","driveId":"drive-1","path":"/drives/drive-1/root:"},"folder":{"childCount":0}}
			]
		}`)
	})

	mux.HandleFunc("GET /sites/site-1/drives/drive-1/root:/backup.old:/children", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"value": [
				{"id":"no","name":"nested.old","parentReference":{"id":"bo","driveId":"drive-1","path":"/drives/drive-1/root:/backup.old"},"folder":{"childCount":0}}
			]
		}`)
	})

	mux.HandleFunc("GET /sites/site-1/drives/drive-1/root:/backup.old/nested.old:/children", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"value": []}`)
	})

	mux.HandleFunc("GET /sites/site-1/drives/drive-1/root:/data:/children", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"value": []}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := newTestManager(t, srv.URL)
	matches, err := m.SearchFoldersBySuffixRecursive(context.Background(), ".old", "")
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, "/backup.old", matches[0].Path)
	assert.Equal(t, "/backup.old/nested.old", matches[1].Path)
}

func TestSearchResults_NamesCarrySuffix(t *testing.T) {
	srv := newTreeServer(t)

	m := newTestManager(t, srv.URL)
	matches, err := m.SearchFilesBySuffixRecursive(context.Background(), "csv", "")
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	for _, info := range matches {
		assert.True(t, strings.HasSuffix(norm.NFC.String(info.Name), ".csv"),
			"name %q should end with .csv", info.Name)
	}
}

func TestSearchRecursive_EmptySuffix(t *testing.T) {
	srv := trapServer(t)

	m := newTestManager(t, srv.URL)
	_, err := m.SearchFilesBySuffixRecursive(context.Background(), "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptySuffix)
}
