package glres

import "github.com/yuripourre/cardboard/resources"

// Caches groups the managed object kinds an application can create.
type Caches struct {
	Meshes       *resources.Cache[*Mesh]
	Textures     *resources.Cache[*Texture]
	Cubemaps     *resources.Cache[*Cubemap]
	Shaders      *resources.Cache[*Program]
	Framebuffers *resources.Cache[*Framebuffer]
}

func NewCaches() *Caches {
	return &Caches{
		Meshes:       resources.NewCache[*Mesh]("meshes"),
		Textures:     resources.NewCache[*Texture]("textures"),
		Cubemaps:     resources.NewCache[*Cubemap]("cubemaps"),
		Shaders:      resources.NewCache[*Program]("shaders"),
		Framebuffers: resources.NewCache[*Framebuffer]("framebuffers"),
	}
}

// Register adds every cache to r. Meshes and textures go first so programs
// and framebuffers never reference objects from a dead context.
func (c *Caches) Register(r *resources.Registry) {
	r.Register(c.Meshes.Kind(), c.Meshes)
	r.Register(c.Textures.Kind(), c.Textures)
	r.Register(c.Cubemaps.Kind(), c.Cubemaps)
	r.Register(c.Shaders.Kind(), c.Shaders)
	r.Register(c.Framebuffers.Kind(), c.Framebuffers)
}
