package idmap

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/roach88/tskdbdiff/internal/tskdb"
)

// Object is one row of tsk_objects.
type Object struct {
	ParentID sql.NullInt64
	Type     int64
}

// Tables holds every id mapping built from one case database.
type Tables struct {
	FilePaths     map[int64]string
	VSParts       map[int64]string
	VSInfo        map[int64]string
	FSInfo        map[int64]string
	Objects       map[int64]Object
	ArtifactTypes map[int64]string

	// ObjectPaths is FilePaths extended with synthesized paths for objects
	// that hang off artifacts.
	ObjectPaths map[int64]string
}

// Build reads all id mappings from db. Any failure is fatal for the
// comparison: a missing table means the file is not a case database.
func Build(ctx context.Context, db *tskdb.DB) (*Tables, error) {
	var (
		t   Tables
		err error
	)

	if t.FilePaths, err = BuildFilePaths(ctx, db); err != nil {
		return nil, err
	}
	if t.VSParts, err = BuildVSParts(ctx, db); err != nil {
		return nil, err
	}
	if t.VSInfo, err = BuildVSInfo(ctx, db); err != nil {
		return nil, err
	}
	if t.FSInfo, err = BuildFSInfo(ctx, db); err != nil {
		return nil, err
	}
	if t.Objects, err = BuildObjects(ctx, db); err != nil {
		return nil, err
	}
	if t.ArtifactTypes, err = BuildArtifactTypes(ctx, db); err != nil {
		return nil, err
	}
	t.ObjectPaths = BuildObjectPaths(t.FilePaths, t.Objects, t.ArtifactTypes)

	return &t, nil
}

// Resolve returns the surrogate key for id, trying object paths, partitions,
// volume systems and file systems in that order.
func (t *Tables) Resolve(id int64) (string, bool) {
	for _, m := range []map[int64]string{t.ObjectPaths, t.VSParts, t.VSInfo, t.FSInfo} {
		if v, ok := m[id]; ok {
			return v, true
		}
	}
	return "", false
}

// Path returns the object path for id (files and artifact-derived objects).
func (t *Tables) Path(id int64) (string, bool) {
	v, ok := t.ObjectPaths[id]
	return v, ok
}

// BuildFilePaths maps each file's object id to parent_path + name.
// A NULL parent path contributes nothing.
func BuildFilePaths(ctx context.Context, db *tskdb.DB) (map[int64]string, error) {
	return buildKeyed(ctx, db, "tsk_files", `SELECT obj_id, parent_path, name FROM tsk_files`, "")
}

// BuildVSParts maps each partition's object id to "addr_start".
func BuildVSParts(ctx context.Context, db *tskdb.DB) (map[int64]string, error) {
	return buildKeyed(ctx, db, "tsk_vs_parts", `SELECT obj_id, addr, start FROM tsk_vs_parts`, "_")
}

// BuildVSInfo maps each volume system's object id to "vs_type_img_offset".
func BuildVSInfo(ctx context.Context, db *tskdb.DB) (map[int64]string, error) {
	return buildKeyed(ctx, db, "tsk_vs_info", `SELECT obj_id, vs_type, img_offset FROM tsk_vs_info`, "_")
}

// BuildFSInfo maps each file system's object id to "img_offset_fs_type".
func BuildFSInfo(ctx context.Context, db *tskdb.DB) (map[int64]string, error) {
	return buildKeyed(ctx, db, "tsk_fs_info", `SELECT obj_id, img_offset, fs_type FROM tsk_fs_info`, "_")
}

// buildKeyed runs a three-column query (id, a, b) and maps id to a+sep+b.
func buildKeyed(ctx context.Context, db *tskdb.DB, table, query, sep string) (map[int64]string, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	mapping := make(map[int64]string)
	for rows.Next() {
		var id int64
		var a, b any
		if err := rows.Scan(&id, &a, &b); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		mapping[id] = tskdb.FormatValue(a) + sep + tskdb.FormatValue(b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	return mapping, nil
}

// BuildObjects maps each object id to its parent id and object type.
func BuildObjects(ctx context.Context, db *tskdb.DB) (map[int64]Object, error) {
	rows, err := db.Query(ctx, `SELECT obj_id, par_obj_id, type FROM tsk_objects`)
	if err != nil {
		return nil, fmt.Errorf("query tsk_objects: %w", err)
	}
	defer rows.Close()

	objects := make(map[int64]Object)
	for rows.Next() {
		var id int64
		var obj Object
		if err := rows.Scan(&id, &obj.ParentID, &obj.Type); err != nil {
			return nil, fmt.Errorf("scan tsk_objects: %w", err)
		}
		objects[id] = obj
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tsk_objects: %w", err)
	}

	return objects, nil
}

// BuildArtifactTypes maps each artifact's object id to its type name
// (e.g. TSK_EMAIL_MSG).
func BuildArtifactTypes(ctx context.Context, db *tskdb.DB) (map[int64]string, error) {
	rows, err := db.Query(ctx, `
		SELECT blackboard_artifacts.artifact_obj_id, blackboard_artifact_types.type_name
		FROM blackboard_artifacts
		INNER JOIN blackboard_artifact_types
			ON blackboard_artifact_types.artifact_type_id = blackboard_artifacts.artifact_type_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query artifact types: %w", err)
	}
	defer rows.Close()

	types := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan artifact types: %w", err)
		}
		types[id] = tskdb.Text(name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifact types: %w", err)
	}

	return types, nil
}

// BuildObjectPaths extends the file path table with paths for objects that
// are not files but belong to an artifact. Objects are visited in ascending
// id order, so a parent created earlier in the ingest is resolved before its
// children.
//
// For an artifact object the path is its parent's path plus "/" and the
// artifact type name. For a child of an artifact object it is the
// grandparent's path plus "/" and the parent artifact's type name, i.e. the
// path of the artifact it belongs to. Objects whose anchor has no path are
// left out.
func BuildObjectPaths(files map[int64]string, objects map[int64]Object, artifactTypes map[int64]string) map[int64]string {
	mapping := make(map[int64]string, len(files)+len(artifactTypes))
	for id, path := range files {
		mapping[id] = path
	}

	ids := make([]int64, 0, len(objects))
	for id := range objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if _, ok := mapping[id]; ok {
			continue
		}
		obj := objects[id]
		if !obj.ParentID.Valid {
			continue
		}
		parentID := obj.ParentID.Int64

		artifactID, anchorID := id, parentID
		if _, ok := artifactTypes[id]; !ok {
			if _, ok := artifactTypes[parentID]; !ok {
				continue
			}
			parent, ok := objects[parentID]
			if !ok || !parent.ParentID.Valid {
				continue
			}
			artifactID, anchorID = parentID, parent.ParentID.Int64
		}

		if anchor, ok := mapping[anchorID]; ok {
			mapping[id] = anchor + "/" + artifactTypes[artifactID]
		}
	}

	return mapping
}
