package jaxrs

import "strings"

// OutputPathResolver computes where the renderer writes a template variant
// for a tag group.
type OutputPathResolver interface {
	APIFilename(templateName, tag string) string
}

// PathResolver resolves API file paths from a configuration.
type PathResolver struct {
	cfg Config
}

// NewPathResolver returns a resolver for the normalized cfg.
func NewPathResolver(cfg Config) *PathResolver {
	return &PathResolver{cfg: cfg.Normalize()}
}

// DefaultAPIFilename is <apiFolder>/<ApiName>.java.
func (r *PathResolver) DefaultAPIFilename(tag string) string {
	return r.cfg.APIFolder() + "/" + ToAPIName(tag) + ".java"
}

// APIFilename returns the output path of templateName for tag.
func (r *PathResolver) APIFilename(templateName, tag string) string {
	return ResolveAPIPath(r.DefaultAPIFilename(tag), templateName, r.cfg.APIFolder(), r.cfg.ImplFileFolder())
}

// ResolveAPIPath rewrites the default per-tag path by template suffix:
//
//	*Impl.mustache     <implFolder>/impl/<Name>ServiceImpl.java
//	*Factory.mustache  <implFolder>/factories/<Name>ServiceFactory.java
//	*Service.mustache  <apiFolder>/<Name>Service.java
//
// Any other template keeps defaultPath.
func ResolveAPIPath(defaultPath, templateName, apiFolder, implFolder string) string {
	switch {
	case strings.HasSuffix(templateName, "Impl.mustache"):
		return relocate(insertDir(defaultPath, "impl", "ServiceImpl.java"), apiFolder, implFolder)
	case strings.HasSuffix(templateName, "Factory.mustache"):
		return relocate(insertDir(defaultPath, "factories", "ServiceFactory.java"), apiFolder, implFolder)
	case strings.HasSuffix(templateName, "Service.mustache"):
		ix := strings.LastIndex(defaultPath, ".")
		if ix < 0 {
			return defaultPath + "Service.java"
		}
		return defaultPath[:ix] + "Service.java"
	}
	return defaultPath
}

// insertDir places dir before the filename and replaces its ".java" extension
// with suffix.
func insertDir(p, dir, suffix string) string {
	ix := strings.LastIndex(p, "/")
	name := p[ix+1:]
	name = strings.TrimSuffix(name, ".java")
	return p[:ix+1] + dir + "/" + name + suffix
}

func relocate(p, from, to string) string {
	if from == "" {
		return p
	}
	return strings.ReplaceAll(p, from, to)
}
