package testutil

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// CreateCaseDB writes a case database named name into dir, applying Schema
// followed by stmts, and returns its path. The database is closed before
// returning so the code under test opens it fresh.
func CreateCaseDB(t *testing.T, dir, name string, stmts ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(Schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}

	return path
}

// Variant selects how a sample case is populated.
type Variant struct {
	// Renumber swaps the object ids of the two user files and the ids of
	// the two artifacts, and changes every run-specific value (device id,
	// host name, timestamps, extraction directory suffix). The logical
	// content is unchanged.
	Renumber bool
}

// Object ids shared by both variants.
const (
	ImageID      = 1
	VolumeID     = 2
	PartitionID  = 3
	FileSystemID = 4
	ExtractedID  = 7
	ReportID     = 10
)

// SampleCase returns the INSERT statements for a small case: one image with
// a volume system, a partition, a file system, two files (/img/doc.txt and
// /img/notes.txt), a file extracted from notes.txt, an e-mail artifact on
// doc.txt and a keyword hit on notes.txt that references the e-mail.
func SampleCase(v Variant) []string {
	docID, notesID := 5, 6
	emailArtifact, keywordArtifact := 1, 2
	emailObj, keywordObj := 8, 9
	device, host := "f2d1-device", "forensic-01"
	start, end, crtime := 1600000000, 1600000300, 1600000400
	extractDir := "notes.txt_456"
	if v.Renumber {
		docID, notesID = notesID, docID
		emailArtifact, keywordArtifact = keywordArtifact, emailArtifact
		emailObj, keywordObj = keywordObj, emailObj
		device, host = "77aa-device", "forensic-02"
		start, end, crtime = 1700000000, 1700000900, 1700001000
		extractDir = "notes.txt_789"
	}

	return []string{
		`INSERT INTO tsk_objects VALUES (1, NULL, 0)`,
		`INSERT INTO tsk_objects VALUES (2, 1, 1)`,
		`INSERT INTO tsk_objects VALUES (3, 2, 2)`,
		`INSERT INTO tsk_objects VALUES (4, 3, 3)`,
		fmt.Sprintf(`INSERT INTO tsk_objects VALUES (%d, 4, 4)`, docID),
		fmt.Sprintf(`INSERT INTO tsk_objects VALUES (%d, 4, 4)`, notesID),
		fmt.Sprintf(`INSERT INTO tsk_objects VALUES (7, %d, 4)`, notesID),
		fmt.Sprintf(`INSERT INTO tsk_objects VALUES (%d, %d, 5)`, emailObj, docID),
		fmt.Sprintf(`INSERT INTO tsk_objects VALUES (%d, %d, 5)`, keywordObj, notesID),
		`INSERT INTO tsk_objects VALUES (10, NULL, 6)`,

		`INSERT INTO tsk_vs_info VALUES (2, 1, 0, 512)`,
		`INSERT INTO tsk_vs_parts VALUES (3, 2, 63, 2048, 'NTFS / exFAT (0x07)', 1)`,
		`INSERT INTO tsk_fs_info VALUES (4, 32256, 1, 4096, 1000, 5, 0, 1000, NULL)`,

		fmt.Sprintf(`INSERT INTO tsk_files VALUES (%d, 4, 1, 'doc.txt', '/img/', 120, NULL)`, docID),
		fmt.Sprintf(`INSERT INTO tsk_files VALUES (%d, 4, 1, 'notes.txt', '/img/', 64, NULL)`, notesID),
		`INSERT INTO tsk_files VALUES (7, 4, 6, 'x.txt', '/img/notes.txt/', 10, NULL)`,
		fmt.Sprintf(`INSERT INTO tsk_files_path VALUES (7, '/cases/ModuleOutput/EmbeddedFileExtractor/%s/x.txt')`, extractDir),
		fmt.Sprintf(`INSERT INTO tsk_file_layout VALUES (%d, 0, 120, 0)`, docID),

		`INSERT INTO blackboard_artifact_types VALUES (9, 'TSK_KEYWORD_HIT', 'Keyword Hits')`,
		`INSERT INTO blackboard_artifact_types VALUES (12, 'TSK_EMAIL_MSG', 'Email Message')`,
		`INSERT INTO blackboard_attribute_types VALUES (22, 'TSK_SUBJECT', 'Subject')`,
		`INSERT INTO blackboard_attribute_types VALUES (10, 'TSK_KEYWORD', 'Keyword')`,
		`INSERT INTO blackboard_attribute_types VALUES (37, 'TSK_ASSOCIATED_ARTIFACT', 'Associated Artifact')`,

		fmt.Sprintf(`INSERT INTO blackboard_artifacts VALUES (%d, %d, %d, 12)`, emailArtifact, docID, emailObj),
		fmt.Sprintf(`INSERT INTO blackboard_artifacts VALUES (%d, %d, %d, 9)`, keywordArtifact, notesID, keywordObj),
		fmt.Sprintf(`INSERT INTO blackboard_attributes VALUES (%d, 12, 'Email Parser', '', 22, 0, NULL, 'Quarterly numbers', NULL, NULL, NULL)`, emailArtifact),
		fmt.Sprintf(`INSERT INTO blackboard_attributes VALUES (%d, 9, 'Keyword Search', '', 10, 0, NULL, 'secret', NULL, NULL, NULL)`, keywordArtifact),
		fmt.Sprintf(`INSERT INTO blackboard_attributes VALUES (%d, 9, 'Keyword Search', '', 37, 2, NULL, NULL, NULL, %d, NULL)`, keywordArtifact, emailArtifact),

		fmt.Sprintf(`INSERT INTO reports VALUES (10, '/cases/Reports/HTML Report %d', %d, 'HTML Report', 'HTML')`, crtime, crtime),
		fmt.Sprintf(`INSERT INTO data_source_info VALUES (1, '%s', 'UTC')`, device),
		fmt.Sprintf(`INSERT INTO ingest_jobs VALUES (1, 1, '%s', %d, %d, 1, '')`, host, start, end),
	}
}
