// Package launch defines the entity model for launch descriptions and the
// resolver that turns a description plus caller-supplied arguments into a
// concrete plan of process launches.
//
// A Description is an ordered list of entities: argument declarations,
// inclusions of other descriptions, and process launch records. Entities are
// pure data; nothing is executed here. The resolver walks a description in
// two passes (declarations first, then entity resolution in order) so that a
// missing required argument fails the whole run before any process record is
// produced.
package launch
