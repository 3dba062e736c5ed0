//go:build js && wasm

package main

import (
	"syscall/js"

	"bridge-lite/session"
)

func main() {
	registry, err := newRegistry()
	if err != nil {
		js.Global().Set("__bridgeInitError", err.Error())
		select {}
	}

	js.Global().Set("__bridgeAdvise", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return mustJSON(adviseResponse{
				OK:    false,
				Error: &session.SessionError{StepIndex: -1, Reason: "invalid_request", Message: "missing request payload"},
			})
		}
		return mustJSON(handleAdvise(registry, args[0].String()))
	}))
	js.Global().Set("__bridgeLegal", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return mustJSON(legalResponse{
				OK:    false,
				Error: &session.SessionError{StepIndex: -1, Reason: "invalid_request", Message: "missing request payload"},
			})
		}
		return mustJSON(handleLegal(registry, args[0].String()))
	}))

	select {}
}
