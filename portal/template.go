package portal

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/pion/logging"

	"netpilot/wireless"
)

//go:embed templates
var templateFS embed.FS

// Template data structures
type IndexData struct {
	HasSaved bool
}

type ScanData struct {
	Networks  []wireless.ScanResult
	ScanError string
}

type ResultData struct {
	Heading string
	Message string
	Detail  string
}

// TemplateManager handles template parsing and rendering
type TemplateManager struct {
	templates *template.Template
	log       logging.LeveledLogger
}

// NewTemplateManager parses the embedded portal templates
func NewTemplateManager(loggerFactory logging.LoggerFactory) *TemplateManager {
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	templates := template.Must(template.ParseFS(templateFS, "templates/*.html"))
	return &TemplateManager{
		templates: templates,
		log:       loggerFactory.NewLogger("portal"),
	}
}

// RenderIndex renders the portal landing page
func (tm *TemplateManager) RenderIndex(data IndexData) string {
	return tm.render("index.html", data)
}

// RenderScan renders the network scan page
func (tm *TemplateManager) RenderScan(data ScanData) string {
	return tm.render("scan.html", data)
}

// RenderResult renders a connect/reconnect outcome page
func (tm *TemplateManager) RenderResult(data ResultData) string {
	return tm.render("result.html", data)
}

func (tm *TemplateManager) render(name string, data any) string {
	var buf bytes.Buffer
	if err := tm.templates.ExecuteTemplate(&buf, name, data); err != nil {
		tm.log.Errorf("error rendering %s: %v", name, err)
		return "<html><body><h1>Internal Server Error</h1></body></html>"
	}
	return buf.String()
}
