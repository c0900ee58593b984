// Package sourceargs exposes command line options as a property source.
//
// Recognized forms are "--name=value", "--name value" and a bare "--flag",
// which stores "true". Arguments that are not options are ignored and "--"
// ends option parsing. When an option repeats, the last occurrence wins.
//
// The "--name value" form is ambiguous: a bare flag followed by a positional
// word takes that word as its value, so "--debug file.txt" yields
// debug=file.txt. Write "--debug=true" or put the flag last when the next
// argument is not meant as its value.
//
// Example:
//
//	env := sightline.NewEnvironment(sourceargs.New(os.Args[1:]))
package sourceargs
