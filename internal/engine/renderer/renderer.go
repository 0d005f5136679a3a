// Package renderer draws tessellated patch sets with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/veldt/internal/engine/shader"
	"github.com/Faultbox/veldt/internal/logger"
	"github.com/Faultbox/veldt/pkg/math"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

const patchVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;

uniform mat4 uViewProj;

out vec3 vColor;

void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
	vColor = aColor;
}
`

const patchFragmentShader = `
#version 410 core

in vec3 vColor;
out vec4 FragColor;

void main() {
	FragColor = vec4(vColor, 1.0);
}
`

// Renderer owns the GL state for drawing patch meshes.
type Renderer struct {
	config Config

	program *shader.Program

	fillVAO, fillVBO uint32
	lineVAO, lineVBO uint32
	fillCount        int32
	lineCount        int32

	// Draw toggles, flipped at runtime by the viewer.
	DrawFill  bool
	DrawLines bool
}

// New initializes GL state for patch drawing. The GL context must
// already be current on the calling thread.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:    cfg,
		DrawFill:  true,
		DrawLines: true,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.07, 0.09, 0.12, 1.0) // Night-sky background

	program, err := shader.NewProgram(patchVertexShader, patchFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("patch shader: %w", err)
	}
	r.program = program

	r.fillVAO, r.fillVBO = newMeshBuffers()
	r.lineVAO, r.lineVBO = newMeshBuffers()

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

// newMeshBuffers creates a VAO/VBO pair with the interleaved Vertex layout.
func newMeshBuffers() (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	stride := int32(unsafe.Sizeof(Vertex{}))

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	// Color (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return vao, vbo
}

// Close releases the GL buffers and the shader program.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.fillVAO != 0 {
		gl.DeleteVertexArrays(1, &r.fillVAO)
		gl.DeleteVertexArrays(1, &r.lineVAO)
	}
	if r.fillVBO != 0 {
		gl.DeleteBuffers(1, &r.fillVBO)
		gl.DeleteBuffers(1, &r.lineVBO)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize updates the viewport to a new drawable size.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin clears the color and depth buffers for a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetMesh uploads a freshly built patch mesh. The buffers are dynamic;
// the viewer calls this whenever the patch set changes.
func (r *Renderer) SetMesh(m *Mesh) {
	r.fillCount = int32(len(m.Fill))
	r.lineCount = int32(len(m.Lines))

	vertexSize := int(unsafe.Sizeof(Vertex{}))
	if len(m.Fill) > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, r.fillVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(m.Fill)*vertexSize, unsafe.Pointer(&m.Fill[0]), gl.DYNAMIC_DRAW)
	}
	if len(m.Lines) > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(m.Lines)*vertexSize, unsafe.Pointer(&m.Lines[0]), gl.DYNAMIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Draw renders the current mesh with the given view-projection matrix.
func (r *Renderer) Draw(viewProj math.Mat4) {
	r.program.Use()
	r.program.SetMat4("uViewProj", viewProj)

	if r.DrawFill && r.fillCount > 0 {
		gl.BindVertexArray(r.fillVAO)
		gl.DrawArrays(gl.TRIANGLES, 0, r.fillCount)
	}
	if r.DrawLines && r.lineCount > 0 {
		gl.BindVertexArray(r.lineVAO)
		gl.DrawArrays(gl.LINES, 0, r.lineCount)
	}
	gl.BindVertexArray(0)
}

// ReadPixels reads the current framebuffer back as tightly packed RGBA,
// bottom row first, for screenshot capture.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}
