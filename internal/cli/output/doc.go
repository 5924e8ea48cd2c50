// Package output renders chainmap CLI results as tables, JSON or YAML.
//
// Types that know their own tabular shape implement Tabler; plain structs
// are rendered as FIELD/VALUE pairs with nested sections flattened into
// dotted names, the same names the configuration loader uses.
package output
