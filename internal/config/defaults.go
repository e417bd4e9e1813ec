package config

// Default values applied to unset fields.
const (
	DefaultContentDir      = "content"
	DefaultOutputDir       = "out"
	DefaultTemplateDir     = "templates"
	DefaultStaticDir       = "static"
	DefaultSiteTitle       = "nodata.science"
	DefaultArticleSegment  = "article"
	DefaultPageTemplate    = "page.html"
	DefaultArticleTemplate = "article.html"
	DefaultBlogTemplate    = "blog.html"
	DefaultBlogOutput      = "blog.html"
	DefaultHighlightStyle  = "github"
	DefaultWorkers         = 1
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	setDefault(&c.ContentDir, DefaultContentDir)
	setDefault(&c.OutputDir, DefaultOutputDir)
	setDefault(&c.TemplateDir, DefaultTemplateDir)
	setDefault(&c.StaticDir, DefaultStaticDir)
	setDefault(&c.SiteTitle, DefaultSiteTitle)
	setDefault(&c.ArticleSegment, DefaultArticleSegment)
	setDefault(&c.DefaultTemplate, DefaultPageTemplate)
	setDefault(&c.ArticleTemplate, DefaultArticleTemplate)
	setDefault(&c.BlogTemplate, DefaultBlogTemplate)
	setDefault(&c.BlogOutput, DefaultBlogOutput)
	setDefault(&c.Highlight.Style, DefaultHighlightStyle)
	if len(c.MarkdownExtensions) == 0 {
		c.MarkdownExtensions = []string{".md"}
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
