// Package js9 builds the HTML snippet that loads the JS9 FITS viewer into a
// radiopadre notebook, or the warning shown in its place when JS9 is unusable.
package js9

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path"
	"strconv"
	"strings"
)

const (
	ErrorEnv      = "RADIOPADRE_JS9_ERROR"
	HelperPortEnv = "RADIOPADRE_JS9_HELPER_PORT"
)

//go:embed js9-init-template.html
var initTemplate string

var tmpl = template.Must(template.New("js9-init").Parse(initTemplate))

var statusTmpl = template.Must(template.New("status").Parse(
	`<p style="background: {{.Color}}; padding: 4px">{{.Message}}</p>`))

// Env is what Init needs to know about the notebook server.
type Env struct {
	// URLBase is the server's shadow URL root.
	URLBase string
	// AbsRoot is the absolute notebook root directory.
	AbsRoot    string
	HelperPort string
	// Error, when set, disables JS9 with this reason.
	Error    string
	Hostname string
}

// EnvFromOS reads Env from the process environment.
func EnvFromOS(urlBase, absRoot string) Env {
	return Env{
		URLBase:    urlBase,
		AbsRoot:    absRoot,
		HelperPort: os.Getenv(HelperPortEnv),
		Error:      os.Getenv(ErrorEnv),
		Hostname:   os.Getenv("HOSTNAME"),
	}
}

type Config struct {
	RadiopadreInstallPrefix string
	RadiopadreLocalPrefix   string
	JS9InstallPrefix        string
	JS9ScriptPrefix         string
	HelperPort              int

	// InitHTML is the snippet to embed in the notebook.
	InitHTML template.HTML
	// Error is empty when JS9 is usable.
	Error   string
	Warning string
}

// Init computes the JS9 URL prefixes and renders the init snippet. It never
// fails: problems end up in Error, InitHTML and Warning instead.
func Init(env Env) Config {
	cfg := Config{Error: env.Error}
	if cfg.Error == "" {
		base := strings.TrimSuffix(env.URLBase, "/")
		cfg.RadiopadreInstallPrefix = base + "/radiopadre-www"
		cfg.RadiopadreLocalPrefix = base + path.Join("/", env.AbsRoot, ".radiopadre")
		cfg.JS9InstallPrefix = base + "/js9-www"
		cfg.JS9ScriptPrefix = base

		port, err := strconv.Atoi(strings.TrimSpace(env.HelperPort))
		if err != nil {
			cfg.Error = "invalid " + HelperPortEnv + " setting, integer value expected"
		} else {
			cfg.HelperPort = port
		}
	}

	if cfg.Error == "" {
		var b strings.Builder
		if err := tmpl.Execute(&b, cfg); err != nil {
			cfg.Error = fmt.Sprintf("Error reading init templates: %v", err)
		} else {
			cfg.InitHTML = template.HTML(b.String())
		}
	}

	if cfg.Error != "" {
		cfg.InitHTML = RenderStatusMessage("Error initializing JS9: "+cfg.Error, "yellow")
		cfg.Warning = fmt.Sprintf("Warning: the JS9 FITS viewer is not functional (%s). Live FITS file viewing "+
			"will not be available in this notebook. You probably want to fix this problem (missing libcfitsio-dev "+
			"and/or nodejs packages, typically), then reinstall the radiopadre environment on this system (%s).",
			cfg.Error, env.Hostname)
	}
	return cfg
}

// RenderStatusMessage renders msg as an HTML paragraph on a bgcolor background.
func RenderStatusMessage(msg, bgcolor string) template.HTML {
	var b strings.Builder
	data := struct {
		Color   template.CSS
		Message string
	}{template.CSS(bgcolor), msg}
	if err := statusTmpl.Execute(&b, data); err != nil {
		return template.HTML(template.HTMLEscapeString(msg))
	}
	return template.HTML(b.String())
}
