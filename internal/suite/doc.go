// Package suite runs a list of database comparisons described by a YAML
// manifest, one after the other.
//
// Manifest format:
//
//	cases:
//	  - name: keyword-search
//	    output_db: runs/keyword/autopsy.db
//	    gold_db: gold/keyword/autopsy.db
//	    output_dir: results/keyword
//	  - name: email
//	    output_db: runs/email/autopsy.db
//	    gold_db: gold/email/autopsy.db
//	    gold_dump: gold/email/DBDump.txt
//	    gold_bb_dump: gold/email/BlackboardDump.txt
//
// Relative paths are resolved against the manifest's directory. A case
// without output_dir writes its dumps to a transient directory.
package suite
