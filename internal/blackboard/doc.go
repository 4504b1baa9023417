// Package blackboard serializes the artifact/attribute tables of a case
// database into one line of text per artifact.
//
// Artifact and attribute ids depend on the order ingest modules ran, so
// nothing here prints an id. An artifact is identified by the path of its
// source file and its type; its attributes are listed in a fully
// deterministic order:
//
//	/img/doc.txt <artifact type="Email Message" > <attribute source="Email Parser" type="Subject" value="Quarterly numbers" /> <artifact/>
//
// An "Associated Artifact" attribute holds the id of another artifact. It is
// rendered as that artifact's file path and type instead.
package blackboard
