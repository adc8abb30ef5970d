/*

Process of compilation

Program Text ->
	parse ->
Abstract Syntax Tree (ast) ->
	front (lower) ->
Intermediate Representation (ir) ->
	ir text         -> Koopa IR Text
	back (compile)  -> RISC-V Assembly Text

The ir is a single function with a single entry block.
Every value is defined once before use, so the back end
binds it to a register on first use and never frees it.

*/
package compiler
