package templates

import (
	"strings"

	"github.com/MakeNowJust/heredoc"
)

// SmokeTestMarker is the function name whose presence marks an injected
// unit-test block.
const SmokeTestMarker = "scaffold_smoke_test"

var testBlock = heredoc.Doc(`

	#[cfg(test)]
	mod scaffold_tests {
	    #[test]
	    fn scaffold_smoke_test() {
	        assert_eq!(2 + 2, 4);
	    }
	}
`)

// TestBlock returns the unit-test block appended to a primary source file.
func TestBlock() []byte {
	return []byte(testBlock)
}

// CrateIdent converts a package name to the identifier Rust code uses to
// refer to the crate.
func CrateIdent(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
