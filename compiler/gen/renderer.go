package gen

// Renderer turns a package plan into the source of its generated file.
// Implementations hold all concrete-syntax concerns; see package
// compiler/gen/golang.
type Renderer interface {
	// Name identifies the renderer in logs.
	Name() string
	// Render returns the complete file content for p. It is called
	// concurrently for different plans.
	Render(p *Plan) ([]byte, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(p *Plan) ([]byte, error)

// Name implements Renderer.
func (f RendererFunc) Name() string { return "func" }

// Render implements Renderer.
func (f RendererFunc) Render(p *Plan) ([]byte, error) { return f(p) }
