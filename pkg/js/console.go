package js

import (
	"log"
	"strings"

	"github.com/dop251/goja"
)

// registerConsole installs a console object whose methods print to logger.
func registerConsole(vm *goja.Runtime, logger *log.Logger) {
	console := vm.NewObject()
	for name, prefix := range map[string]string{
		"log":   "console: ",
		"info":  "console: ",
		"debug": "console: ",
		"warn":  "console: WARN: ",
		"error": "console: ERROR: ",
	} {
		console.Set(name, func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			logger.Print(prefix, strings.Join(parts, " "))
			return goja.Undefined()
		})
	}
	vm.Set("console", console)
}
