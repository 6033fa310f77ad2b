// Package fixture reads editor documents and edit scripts from YAML files.
//
// A document file lists blocks. Each block has an id, a type, optional
// attrs and children. A child is a text run ({text, marks}), an inline node
// ({inline, attrs}) or a nested block ({id, type, ...}); a bare string is
// shorthand for unmarked text:
//
//	blocks:
//	  - id: b1
//	    type: paragraph
//	    children:
//	      - "Hello "
//	      - text: world
//	        marks: [bold, {type: link, attrs: {href: "https://example.com"}}]
//	  - id: q
//	    type: blockquote
//	    children:
//	      - {id: q1, type: paragraph, children: [quoted]}
//	selection:
//	  anchor: b1:0
//	  head: b1:5
//
// A script file lists edit operations applied in order through an editor:
//
//	ops:
//	  - {op: insert_text, block: b1, offset: 0, text: "Oh, "}
//	  - {op: add_mark, block: b1, from: 0, to: 2, mark: bold}
//	  - {op: undo}
//
// JSON is a subset of YAML, so both formats decode with the same reader.
package fixture
