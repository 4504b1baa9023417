package idmap

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tskdbdiff/internal/testutil"
	"github.com/roach88/tskdbdiff/internal/tskdb"
)

func buildSample(t *testing.T, v testutil.Variant) *Tables {
	t.Helper()
	path := testutil.CreateCaseDB(t, t.TempDir(), "case.db", testutil.SampleCase(v)...)
	db, err := tskdb.Open(path)
	require.NoError(t, err)
	defer db.Close()

	tables, err := Build(context.Background(), db)
	require.NoError(t, err)
	return tables
}

func parent(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: true}
}

func TestBuild_SampleCase(t *testing.T) {
	tables := buildSample(t, testutil.Variant{})

	assert.Equal(t, map[int64]string{
		5: "/img/doc.txt",
		6: "/img/notes.txt",
		7: "/img/notes.txt/x.txt",
	}, tables.FilePaths)
	assert.Equal(t, map[int64]string{3: "2_63"}, tables.VSParts)
	assert.Equal(t, map[int64]string{2: "1_0"}, tables.VSInfo)
	assert.Equal(t, map[int64]string{4: "32256_1"}, tables.FSInfo)
	assert.Equal(t, map[int64]string{8: "TSK_EMAIL_MSG", 9: "TSK_KEYWORD_HIT"}, tables.ArtifactTypes)

	assert.Len(t, tables.Objects, 10)
	assert.False(t, tables.Objects[1].ParentID.Valid)
	assert.Equal(t, parent(4), tables.Objects[5].ParentID)
	assert.Equal(t, int64(4), tables.Objects[5].Type)
}

func TestBuild_ObjectPathsCoverArtifacts(t *testing.T) {
	tables := buildSample(t, testutil.Variant{})

	path, ok := tables.Path(8)
	require.True(t, ok)
	assert.Equal(t, "/img/doc.txt/TSK_EMAIL_MSG", path)

	path, ok = tables.Path(9)
	require.True(t, ok)
	assert.Equal(t, "/img/notes.txt/TSK_KEYWORD_HIT", path)
}

func TestBuild_RenumberedCaseResolvesIdentically(t *testing.T) {
	base := buildSample(t, testutil.Variant{})
	renumbered := buildSample(t, testutil.Variant{Renumber: true})

	baseValues := map[string]bool{}
	for _, v := range base.ObjectPaths {
		baseValues[v] = true
	}
	renumberedValues := map[string]bool{}
	for _, v := range renumbered.ObjectPaths {
		renumberedValues[v] = true
	}
	assert.Equal(t, baseValues, renumberedValues)

	// ids 5 and 6 swapped between the two runs
	assert.Equal(t, "/img/doc.txt", base.FilePaths[5])
	assert.Equal(t, "/img/doc.txt", renumbered.FilePaths[6])
}

func TestBuild_MissingTableIsFatal(t *testing.T) {
	path := testutil.CreateCaseDB(t, t.TempDir(), "case.db", `DROP TABLE tsk_vs_parts`)
	db, err := tskdb.Open(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = Build(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tsk_vs_parts")
}

func TestBuildFilePaths_NullParentPath(t *testing.T) {
	path := testutil.CreateCaseDB(t, t.TempDir(), "case.db",
		`INSERT INTO tsk_files VALUES (1, NULL, 0, 'image.E01', NULL, 0, NULL)`)
	db, err := tskdb.Open(path)
	require.NoError(t, err)
	defer db.Close()

	files, err := BuildFilePaths(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, "image.E01", files[1])
}

func TestResolve_Precedence(t *testing.T) {
	tables := &Tables{
		ObjectPaths: map[int64]string{1: "/file"},
		VSParts:     map[int64]string{1: "part", 2: "0_63"},
		VSInfo:      map[int64]string{2: "vs", 3: "1_0"},
		FSInfo:      map[int64]string{3: "fs", 4: "32256_1"},
	}

	tests := []struct {
		id   int64
		want string
		ok   bool
	}{
		{1, "/file", true},
		{2, "0_63", true},
		{3, "1_0", true},
		{4, "32256_1", true},
		{5, "", false},
	}
	for _, tt := range tests {
		got, ok := tables.Resolve(tt.id)
		assert.Equal(t, tt.ok, ok, "id %d", tt.id)
		assert.Equal(t, tt.want, got, "id %d", tt.id)
	}
}

func TestBuildObjectPaths(t *testing.T) {
	files := map[int64]string{10: "/img/mail.pst"}
	objects := map[int64]Object{
		10: {ParentID: parent(4), Type: 4},
		20: {ParentID: parent(10), Type: 5}, // artifact on the file
		30: {ParentID: parent(20), Type: 5}, // object derived from the artifact
		40: {ParentID: parent(99), Type: 5}, // artifact whose parent has no path
		50: {ParentID: parent(10), Type: 7}, // not an artifact
		60: {Type: 0},                       // root
	}
	artifactTypes := map[int64]string{20: "TSK_EMAIL_MSG", 40: "TSK_WEB_BOOKMARK"}

	got := BuildObjectPaths(files, objects, artifactTypes)

	assert.Equal(t, map[int64]string{
		10: "/img/mail.pst",
		20: "/img/mail.pst/TSK_EMAIL_MSG",
		30: "/img/mail.pst/TSK_EMAIL_MSG",
	}, got)
}

func TestBuildObjectPaths_DoesNotModifyFiles(t *testing.T) {
	files := map[int64]string{1: "/a"}
	objects := map[int64]Object{2: {ParentID: parent(1), Type: 5}}

	got := BuildObjectPaths(files, objects, map[int64]string{2: "TSK_X"})

	assert.Len(t, files, 1)
	assert.Equal(t, "/a/TSK_X", got[2])
}
