//go:build !nogl

// Package opengl runs an interactive simulation in an OpenGL window.
package opengl

import (
	"context"
	_ "embed"
	"fmt"
	"time"
	"unsafe"

	"github.com/PrincetonUniversity/braitenberg"
	"github.com/PrincetonUniversity/braitenberg/loop"
	"github.com/PrincetonUniversity/braitenberg/opengl/mesh"
	"github.com/PrincetonUniversity/braitenberg/pointer"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
)

// Config holds the parameters of the OpenGL driver.
type Config struct {
	Title    string
	Period   time.Duration  // time between ticks
	Scenario string         // applied again by the R key
	Pointer  pointer.Config // mouse drag and scroll
	Paused   bool           // start paused?
	Meter    metric.Meter
	Logger   zerolog.Logger
}

//go:embed shaders/shape.vert
var vertSrc string

//go:embed shaders/shape.frag
var fragSrc string

// Run runs an interactive simulation in an OpenGL window sized like the arena.
//
// The left button drags vehicles and beacons, the wheel turns a dragged
// vehicle. Space pauses, Right steps once while paused, R reapplies the
// scenario, N switches to the next scenario and Escape quits.
func Run(w *braitenberg.World, conf *Config) error {
	// init GLFW and OpenGL
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Samples, 4)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	// create OpenGL window
	title := conf.Title
	if title == "" {
		title = "Braitenberg"
	}
	win, err := glfw.CreateWindow(int(w.Env.Width), int(w.Env.Height), title, nil, nil)
	if err != nil {
		return err
	}
	win.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return err
	}

	// set background color
	gl.ClearColor(0.95, 0.95, 0.92, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	win.SwapBuffers()

	d, err := newDisplay(w.Env)
	if err != nil {
		return err
	}

	m := new(mesh.Mesh)
	r, err := loop.NewRunner(w, &loop.Config{Sink: m, Meter: conf.Meter, Logger: conf.Logger})
	if err != nil {
		return err
	}

	// mouse input goes through the world's mutation queue
	p := pointer.New(w, conf.Pointer)
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		p.Move(braitenberg.Point{X: x, Y: y})
	})
	win.SetMouseButtonCallback(func(win *glfw.Window, b glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if b != glfw.MouseButtonLeft {
			return
		}
		switch action {
		case glfw.Press:
			x, y := win.GetCursorPos()
			p.Press(braitenberg.Point{X: x, Y: y})
		case glfw.Release:
			p.Release()
		}
	})
	win.SetScrollCallback(func(_ *glfw.Window, _, yo float64) {
		p.Scroll(yo)
	})

	var quit bool
	w.SetPaused(conf.Paused)
	scenario := conf.Scenario
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press && !(key == glfw.KeyRight && action == glfw.Repeat) {
			return
		}
		switch key {
		case glfw.KeyEscape:
			quit = true
		case glfw.KeySpace:
			w.Post(func(w *braitenberg.World) error {
				w.SetPaused(!w.Paused)
				return nil
			})
		case glfw.KeyRight:
			w.Post(func(w *braitenberg.World) error {
				if w.Paused {
					w.StepOnce()
				}
				return nil
			})
		case glfw.KeyR:
			s := scenario
			w.Post(func(w *braitenberg.World) error { return w.ApplyScenario(s) })
		case glfw.KeyN:
			scenario = next(braitenberg.Scenarios(), scenario)
			s := scenario
			w.Post(func(w *braitenberg.World) error { return w.ApplyScenario(s) })
			win.SetTitle(fmt.Sprintf("Braitenberg: %s", s))
		}
	})

	ctx := context.Background()
	if err := r.Render(); err != nil {
		return err
	}
	last := time.Now()
	for !(quit || win.ShouldClose()) {
		if time.Since(last) >= conf.Period {
			last = time.Now()
			if err := r.Tick(ctx); err != nil {
				return err
			}
		}
		d.draw(m.Verts)
		win.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

// next returns the name following cur in names, cycling.
func next(names []string, cur string) string {
	for i, n := range names {
		if n == cur {
			return names[(i+1)%len(names)]
		}
	}
	if len(names) == 0 {
		return cur
	}
	return names[0]
}

// display contains all the OpenGL objects required to display the simulation.
type display struct {
	vao  uint32 // vertex array object
	vbo  uint32 // vertex buffer
	prog uint32
	cap  int // vertex capacity of vbo
}

// draw uploads the vertices and draws them as triangles.
func (d *display) draw(verts []mesh.Vertex) {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	if len(verts) == 0 {
		return
	}
	const n = int(unsafe.Sizeof(mesh.Vertex{}))
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	if len(verts) > d.cap {
		d.cap = 2 * len(verts)
		gl.BufferData(gl.ARRAY_BUFFER, d.cap*n, nil, gl.STREAM_DRAW)
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*n, gl.Ptr(verts))

	gl.UseProgram(d.prog)
	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(verts)))
}

// newDisplay compiles shaders and initializes a display.
func newDisplay(env braitenberg.Environment) (*display, error) {
	d := new(display)

	// compile and link shaders
	var err error
	d.prog, err = makeProg([]shader{
		{"Vertex", "shape.vert", vertSrc, gl.CreateShader(gl.VERTEX_SHADER)},
		{"Fragment", "shape.frag", fragSrc, gl.CreateShader(gl.FRAGMENT_SHADER)},
	})
	if err != nil {
		return nil, err
	}

	// uniform location cannot be specified in the shaders in OpenGL 3.3 core
	gl.UseProgram(d.prog)
	arena := gl.GetUniformLocation(d.prog, gl.Str("arena\x00"))
	gl.Uniform2f(arena, float32(env.Width), float32(env.Height))

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)

	// attribute locations are specified in the shaders with layout(location=n)
	const n = int32(unsafe.Sizeof(mesh.Vertex{}))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, n, unsafe.Offsetof(mesh.Vertex{}.X))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, n, unsafe.Offsetof(mesh.Vertex{}.R))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return d, nil
}

// A shader wraps an OpenGL shader.
type shader struct {
	name   string
	path   string
	src    string
	shader uint32
}

// makeProg builds OpenGL programs.
func makeProg(shaders []shader) (uint32, error) {
	var fail error
	for _, s := range shaders {
		str, free := gl.Strs(s.src + "\x00")
		gl.ShaderSource(s.shader, 1, str, nil)
		free()
		gl.CompileShader(s.shader)
		var status int32
		gl.GetShaderiv(s.shader, gl.COMPILE_STATUS, &status)
		if status != gl.TRUE {
			var n int32
			gl.GetShaderiv(s.shader, gl.INFO_LOG_LENGTH, &n)
			log := make([]uint8, n+1)
			gl.GetShaderInfoLog(s.shader, n, &n, &log[0])
			fail = fmt.Errorf("%s shader %s: %s", s.name, s.path, gl.GoStr(&log[0]))
			gl.DeleteShader(s.shader)
		}
	}
	if fail != nil {
		return 0, fail
	}
	prog := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(prog, s.shader)
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status != gl.TRUE {
		return 0, fmt.Errorf("linking GLSL program failed")
	}
	return prog, nil
}
