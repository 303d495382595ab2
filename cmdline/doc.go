// Package cmdline is a bidirectional command-line argument binder: it maps
// a struct to and from a flat sequence of command-line tokens, driven by
// per-field struct tags.
//
// A record declares its bindings once:
//
//	type Options struct {
//		Command string   `index:"0" description:"Action to run"`
//		Url     string   `index:"1" description:"Target URL"`
//		Name    string   `flag:"name" short:"n" required:"true" env:"APP_NAME"`
//		Port    int      `flag:"port" default:"8080"`
//		Verbose bool     `flag:"verbose" short:"v"`
//		Tags    []string `flag:"tags" sep:";"`
//		Level   string   `flag:"level" enum:"debug,info,warn,error" default:"info"`
//		Mode    int      `flag:"mode" enumflags:"read=1,write=2,exec=4"`
//	}
//
// Parse walks the arguments left to right, resolves each token against the
// declared bindings, and applies the precedence chain per field: command
// line, then environment variable, then declared default, then the type's
// zero value. All input problems are collected into the result's error
// list; parsing never stops at the first error.
//
//	res := cmdline.Parse[Options](os.Args[1:])
//	if !res.Ok() {
//		fmt.Println(res.ErrorMessage())
//		return
//	}
//	opts := res.Value
//
// Format is the inverse: it serializes a populated record back into
// canonical command-line text in one of four layouts selected by
// FormatMethod (complete or simplified, space or equal-sign joined).
//
// Binding metadata is reflected once per record type and cached for the
// process lifetime; the cache is safe for concurrent use.
package cmdline
