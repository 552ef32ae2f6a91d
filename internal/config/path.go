package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticUrlPath  = "/" + StaticLocalDir + "/"

	TemplatesLocalDir = "templates"

	TemplateLayout    = "layout.html"
	TemplateIndex     = "index.html"
	TemplateListing   = "listing.html"
	TemplateCards     = "cards.html"
	TemplateUpload    = "upload.html"
	DefaultConfigPath = "config.yaml"
)
