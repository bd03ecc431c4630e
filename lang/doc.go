// Package lang implements the expand macro language.
//
// A [Config] holds a configuration namespace: flat variables, instances of
// named types with their own fields, and aliases naming instances. It is
// loaded from a configuration document with [Config.ReadConfig] and then
// used to expand templates with [Config.Expand].
//
// Every directive starts with the sentinel "$$":
//
//	$$NAME $$(NAME)                 variable reference
//	$$LOOP(n) ... $$ENDLOOP(n)      repeat for each instance of type n, or n times
//	$$IF(n) ... $$ELSE(n) ... $$ENDIF(n)
//	$$IF(n,v) ... $$ENDIF(n)        compare the value of n with v
//	$$IF(n,t,f)                     inline choice
//	$$IFCALC{e} ... $$ENDIF(CALC)   integer condition
//	$$INCLUDE(n)                    expand another document in place
//	$$TRANSLATE(n,"from","to")      map characters, with a-z ranges
//	$$COUNT(t)                      number of instances of type t
//	$$CALC{e} $$CALC{e,fmt}         integer expression, printf-style format
//	$$ASSIGN{n,e}                   define n, visible after enclosing loops
//	$$UP(n) $$ROOT(n)               strip the last path element or extension
//	$$SUBSTR(n,s,e) $$SUBSTR(n,s)   slice with negative indices from the end
//	$$NAME(alias,field)             field of the instance named alias
//
// Configuration documents hold one-line assignments (NAME=value, NAME
// "value" and similar), include directives, and instance declarations in
// either the compact form
//
//	alias:Type(key=value,key="value",OtherType0)
//
// or the block form
//
//	INSTANCE Type alias
//	key = value
//	otherAlias
//
// Named resources are located through an [Opener]; [Files] searches the
// file system and [MapOpener] serves documents from memory.
package lang
