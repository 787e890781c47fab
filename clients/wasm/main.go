//go:build js && wasm

// bggen WASM - In-page background generator widget.
// Compiled with: GOOS=js GOARCH=wasm go build -o bggen.wasm ./clients/wasm/
package main

import (
	"context"
	"encoding/json"
	"os"
	"syscall/js"

	"github.com/rs/zerolog"

	"github.com/xob0t/bggen/pkg/export"
	"github.com/xob0t/bggen/pkg/palette"
	"github.com/xob0t/bggen/pkg/raster"
	"github.com/xob0t/bggen/pkg/session"
	"github.com/xob0t/bggen/pkg/view"
)

// mountID is the element the widget is built into; <body> when absent.
const mountID = "bggen"

var (
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
		With().Timestamp().Str("client", "wasm").Logger()

	doc    = js.Global().Get("document")
	widget *app
)

type app struct {
	sess    *session.Session
	surface *domSurface
	inputs  js.Value
	// inputFuncs are released whenever the pickers are rebuilt.
	inputFuncs []js.Func
}

func main() {
	logger.Info().Msg("bggen WASM loaded")

	root := doc.Call("getElementById", mountID)
	if root.IsNull() {
		root = doc.Get("body")
	}
	widget = mount(root)

	// Register JS-callable functions.
	js.Global().Set("bggenGenerate", js.FuncOf(generate))
	js.Global().Set("bggenSetColor", js.FuncOf(setColor))
	js.Global().Set("bggenSave", js.FuncOf(save))
	js.Global().Set("bggenState", js.FuncOf(state))
	js.Global().Set("bggenReady", js.ValueOf(true))

	// Block forever (WASM must not exit).
	select {}
}

// mount builds heading, colour inputs, preview and buttons under root.
func mount(root js.Value) *app {
	a := &app{}
	root.Get("classList").Call("add", "background-generator-container")

	heading := el("h1")
	heading.Set("textContent", view.Heading)
	root.Call("appendChild", heading)

	a.inputs = el("div")
	a.inputs.Set("className", "color-inputs")
	root.Call("appendChild", a.inputs)

	container := el("div")
	container.Set("className", "preview-container")
	previewEl := el("div")
	previewEl.Set("className", "preview")
	container.Call("appendChild", previewEl)
	root.Call("appendChild", container)
	a.surface = newDOMSurface(previewEl, raster.DefaultOptions())

	genBtn := el("button")
	genBtn.Set("className", "generate-button")
	genBtn.Set("textContent", view.GenerateLabel)
	listen(genBtn, "click", func(js.Value) { a.generate() })
	root.Call("appendChild", genBtn)

	saveBtn := el("button")
	saveBtn.Set("className", "save-button")
	saveBtn.Set("textContent", view.SaveLabel)
	listen(saveBtn, "click", func(js.Value) { a.save() })
	root.Call("appendChild", saveBtn)

	exporter := export.NewExporter(anchorDownloader{},
		export.WithLogger(logger),
		export.WithOutcomeHook(func(o export.Outcome) {
			logger.Debug().Stringer("status", o.Status).Msg("export finished")
		}),
	)
	a.sess = session.New(session.WithSurface(a.surface), session.WithExporter(exporter))
	a.renderInputs()
	return a
}

func listen(target js.Value, event string, fn func(js.Value)) js.Func {
	f := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		var ev js.Value
		if len(args) > 0 {
			ev = args[0]
		}
		fn(ev)
		return nil
	})
	target.Call("addEventListener", event, f)
	return f
}

func (a *app) generate() {
	a.sess.Generate()
	a.renderInputs()
}

// renderInputs rebuilds one colour picker per palette entry.
func (a *app) renderInputs() {
	a.inputs.Set("innerHTML", "")
	for _, f := range a.inputFuncs {
		f.Release()
	}
	a.inputFuncs = a.inputFuncs[:0]

	for _, in := range view.Project(a.sess).Inputs {
		index := in.Index
		input := el("input")
		input.Set("type", "color")
		input.Set("value", in.Value)
		f := listen(input, "input", func(ev js.Value) {
			if err := a.sess.TrySetColorAt(index, ev.Get("target").Get("value").String()); err != nil {
				logger.Warn().Err(err).Int("index", index).Msg("color edit ignored")
			}
		})
		a.inputFuncs = append(a.inputFuncs, f)
		a.inputs.Call("appendChild", input)
	}
}

// save runs the export in the background so the event loop stays free.
func (a *app) save() {
	go func() {
		<-a.sess.ExportAsync(context.Background())
	}()
}

// bggenGenerate() - new palette and shapes; returns the state JSON.
func generate(this js.Value, args []js.Value) interface{} {
	widget.generate()
	return state(this, args)
}

// bggenSetColor(index, "#rrggbb") - edit one palette entry.
func setColor(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("error: need index, color")
	}
	value := args[1].String()
	if !palette.IsHex(value) {
		return js.ValueOf("error: invalid color " + value)
	}
	if err := widget.sess.TrySetColorAt(args[0].Int(), value); err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	widget.renderInputs()
	return js.ValueOf("ok")
}

// bggenSave() - download background.png.
func save(this js.Value, args []js.Value) interface{} {
	widget.save()
	return nil
}

// bggenState() - current View as JSON.
func state(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(view.Project(widget.sess))
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf(string(data))
}

func el(tag string) js.Value {
	return doc.Call("createElement", tag)
}
