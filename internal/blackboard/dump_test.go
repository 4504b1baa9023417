package blackboard

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tskdbdiff/internal/testutil"
	"github.com/roach88/tskdbdiff/internal/tskdb"
)

func openCase(t *testing.T, stmts ...string) *tskdb.DB {
	t.Helper()
	path := testutil.CreateCaseDB(t, t.TempDir(), "case.db", stmts...)
	db, err := tskdb.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func dump(t *testing.T, db *tskdb.DB) (string, *Result) {
	t.Helper()
	var buf bytes.Buffer
	result, err := Dump(context.Background(), db, &buf)
	require.NoError(t, err)
	return buf.String(), result
}

// singleArtifact returns a case with one artifact (id 7) on /img/doc.txt
// carrying the given attribute rows.
func singleArtifact(attrs ...string) []string {
	stmts := []string{
		`INSERT INTO tsk_objects VALUES (1, NULL, 0)`,
		`INSERT INTO tsk_objects VALUES (5, 1, 4)`,
		`INSERT INTO tsk_objects VALUES (8, 5, 5)`,
		`INSERT INTO tsk_files VALUES (5, 1, 1, 'doc.txt', '/img/', 10, NULL)`,
		`INSERT INTO blackboard_artifact_types VALUES (12, 'TSK_EMAIL_MSG', 'Email Message')`,
		`INSERT INTO blackboard_attribute_types VALUES (22, 'TSK_SUBJECT', 'Subject')`,
		`INSERT INTO blackboard_attribute_types VALUES (37, 'TSK_ASSOCIATED_ARTIFACT', 'Associated Artifact')`,
		`INSERT INTO blackboard_artifacts VALUES (7, 5, 8, 12)`,
	}
	return append(stmts, attrs...)
}

func TestDump_Golden(t *testing.T) {
	out, _ := dump(t, openCase(t, testutil.SampleCase(testutil.Variant{})...))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "sample_bbdump", []byte(out))
}

func TestDump_RenumberedCaseComparesEqual(t *testing.T) {
	base, _ := dump(t, openCase(t, testutil.SampleCase(testutil.Variant{})...))
	renumbered, _ := dump(t, openCase(t, testutil.SampleCase(testutil.Variant{Renumber: true})...))

	assert.Equal(t, base, renumbered)
}

func TestDump_Result(t *testing.T) {
	_, result := dump(t, openCase(t, testutil.SampleCase(testutil.Variant{})...))

	assert.Equal(t, 2, result.Artifacts)
	assert.Equal(t, 3, result.Attributes)
	assert.Empty(t, result.Warnings)
}

func TestDump_NoAttributes(t *testing.T) {
	out, result := dump(t, openCase(t, singleArtifact()...))

	assert.Equal(t, "/img/doc.txt <artifact type=\"Email Message\" >  <artifact/>\n", out)
	assert.Equal(t, 0, result.Attributes)
}

func TestDump_BytesValueIsNotPrinted(t *testing.T) {
	out, _ := dump(t, openCase(t, singleArtifact(
		`INSERT INTO blackboard_attributes VALUES (7, 12, 'Parser', '', 22, 4, x'00ff10', NULL, NULL, NULL, NULL)`,
	)...))

	assert.Contains(t, out, `<attribute source="Parser" type="Subject" value="bytes" />`)
}

func TestDump_DoubleValuesKeepStoredForm(t *testing.T) {
	out, result := dump(t, openCase(t, singleArtifact(
		`INSERT INTO blackboard_attributes VALUES (7, 12, 'Parser', '', 22, 3, NULL, NULL, NULL, NULL, 3.0)`,
		`INSERT INTO blackboard_attributes VALUES (7, 12, 'Parser', '', 22, 3, NULL, NULL, NULL, NULL, 1234567.5)`,
	)...))

	assert.Contains(t, out, `value="3" />`)
	assert.Contains(t, out, `value="1234567.5" />`)
	assert.Empty(t, result.Warnings)
}

func TestDump_UnknownValueTypeAborts(t *testing.T) {
	db := openCase(t, singleArtifact(
		`INSERT INTO blackboard_attributes VALUES (7, 12, 'Parser', '', 22, 9, NULL, 'text', NULL, NULL, NULL)`,
	)...)

	var buf bytes.Buffer
	_, err := Dump(context.Background(), db, &buf)

	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, int64(7), extErr.ArtifactID)
	assert.Contains(t, err.Error(), "unknown value type 9")
	assert.Empty(t, buf.String())
}

func TestDump_ControlCharactersBecomeSpaces(t *testing.T) {
	out, _ := dump(t, openCase(t, singleArtifact(
		`INSERT INTO blackboard_attributes VALUES (7, 12, 'Parser', '', 22, 0, NULL, 'line one' || char(10) || 'two' || char(0) || 'three', NULL, NULL, NULL)`,
	)...))

	assert.Contains(t, out, `value="line one two three"`)
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("\n")))
}

func TestDump_AssociatedArtifactDescribesTarget(t *testing.T) {
	out, _ := dump(t, openCase(t, singleArtifact(
		`INSERT INTO blackboard_attributes VALUES (7, 12, 'Parser', '', 37, 2, NULL, NULL, NULL, 7, NULL)`,
	)...))

	assert.Contains(t, out, `value="File path: /img/doc.txt Artifact Type: Email Message"`)
	assert.NotContains(t, out, `value="7"`)
}

func TestDump_AttributesSortedByContent(t *testing.T) {
	out, _ := dump(t, openCase(t, singleArtifact(
		`INSERT INTO blackboard_attributes VALUES (7, 12, 'Parser', '', 22, 0, NULL, 'zeta', NULL, NULL, NULL)`,
		`INSERT INTO blackboard_attributes VALUES (7, 12, 'Parser', '', 22, 0, NULL, 'alpha', NULL, NULL, NULL)`,
	)...))

	assert.Less(t, bytes.Index([]byte(out), []byte("alpha")), bytes.Index([]byte(out), []byte("zeta")))
}

func TestDump_WarnsOnTooManyValues(t *testing.T) {
	out, result := dump(t, openCase(t, singleArtifact(
		`INSERT INTO blackboard_attributes VALUES (7, 12, 'Parser', '', 22, 0, NULL, 'text', NULL, 42, NULL)`,
	)...))

	assert.Contains(t, out, `value="text"`)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "too many values")
	assert.Contains(t, result.Warnings[0], "#7")
}

func TestDump_WarnsOnInconsistentSources(t *testing.T) {
	_, result := dump(t, openCase(t, singleArtifact(
		`INSERT INTO blackboard_attributes VALUES (7, 12, 'Alpha', '', 22, 0, NULL, 'a', NULL, NULL, NULL)`,
		`INSERT INTO blackboard_attributes VALUES (7, 12, 'Beta', '', 22, 0, NULL, 'b', NULL, NULL, NULL)`,
	)...))

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "inconsistent sources")
}

func TestDump_MissingAssociatedArtifactAborts(t *testing.T) {
	db := openCase(t, singleArtifact(
		`INSERT INTO blackboard_attributes VALUES (7, 12, 'Parser', '', 37, 2, NULL, NULL, NULL, 999, NULL)`,
	)...)

	var buf bytes.Buffer
	_, err := Dump(context.Background(), db, &buf)
	require.Error(t, err)

	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, int64(7), extErr.ArtifactID)
	assert.Contains(t, err.Error(), "#7")
	assert.Contains(t, err.Error(), "999")
}

func TestDump_FirstFailingArtifactStopsTheDump(t *testing.T) {
	stmts := singleArtifact(
		`INSERT INTO blackboard_attributes VALUES (7, 12, 'Parser', '', 37, 0, NULL, 'not-an-id', NULL, NULL, NULL)`,
	)
	db := openCase(t, stmts...)

	_, err := Dump(context.Background(), db, &bytes.Buffer{})
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Contains(t, extErr.Err.Error(), fmt.Sprintf("%q", "not-an-id"))
}

func TestDump_MissingTablesFail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.db")
	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.Exec("CREATE TABLE notes (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	db, err := tskdb.Open(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = Dump(context.Background(), db, &bytes.Buffer{})
	assert.ErrorContains(t, err, "query artifacts")
}
