// Package config loads rewriterc rule files.
//
//	            +-------------+
//	            |   Config    |
//	            |  (targets)  |
//	            +------+------+
//	                   |
//	     +-------------+-------------+
//	     |             |             |
//	+----+----+   +----+----+   +----+----+
//	|   HCL   |   |  YAML   |   |  JSON   |
//	| Parser  |   | Parser  |   | Parser  |
//	+---------+   +---------+   +---------+
//
// 🎯 Purpose:
// - Parses a rule file in any registered format
// - Validates the shape of each target
// - Compiles inline rules and presets into rewrite batches
// - Expands file globs into runnable targets
//
// 📝 Example (HCL):
//
//	encoding = "utf-8"
//
//	target "menu" {
//	  files   = ["src/**/*.tsx"]
//	  ignore  = ["src/**/*.test.tsx"]
//	  presets = ["menu-grid-columns", "accent-color"]
//
//	  rule "banner" {
//	    pattern = "bg-\\[#A72020\\]( mt-4)?"
//	    replace = "bg-[#F5F3EB]$${1}"
//	  }
//
//	  rule "title-size" {
//	    literal = "<span className=\"font-semibold\">"
//	    replace = "<span className=\"font-semibold\" style={{fontSize: 'calc(1em + 3px)'}}>"
//	  }
//	}
//
// HCL interpolates "${...}" inside strings, so a braced group reference is
// written "$${1}". YAML and JSON take "${1}" as is.
//
// 🔄 Flow:
// 1. Load picks a parser by file name and decodes the file
// 2. Validate checks targets, globs and defaults the encoding
// 3. Resolve compiles every rule first, then expands globs relative to the
//    config file's directory
package config
