package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticURLPath  = "/" + StaticLocalDir + "/"

	MediaURLPath = "/media/"

	SharesURLPath = "/r/"

	TemplatesLocalDir = "templates"

	TemplateLayout = "layout.html"
	TemplateShare  = "share.html"
)
