package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/shutter-rig/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"orUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Shutter Rig</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.open { color: green; font-weight: bold; }
.closed { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.fault { background: #fee; border: 2px solid red; padding: 1em; margin: 1em 0; }
</style>
</head>
<body>
<h1>Shutter Rig</h1>

{{if .Faulted}}
<div class="fault">
<strong>FAULTED</strong><br>
{{.FaultMessage}}<br>
The rig is halted. Inspect the shutter at the failure point before restarting.
</div>
{{end}}

<h2>Cycle</h2>
<table>
<tr><th>Stage</th><td>{{orUnknown (printf "%s" .Stage)}}</td></tr>
<tr><th>Commanded</th><td class="{{if eq (orUnknown (printf "%s" .Commanded)) "OPEN"}}open{{else if eq (orUnknown (printf "%s" .Commanded)) "CLOSED"}}closed{{else}}unknown{{end}}">{{orUnknown (printf "%s" .Commanded)}}</td></tr>
<tr><th>Settling</th><td>{{if .SettlePending}}yes{{else}}no{{end}}</td></tr>
<tr><th>Actuations</th><td>{{.Successes}}</td></tr>
<tr><th>Burst progress</th><td>{{.FastCount}} / {{.Config.BurstLength}}</td></tr>
</table>

{{if .LastSample}}
<h2>Last Sample</h2>
<table>
<tr><th>Temperature</th><td>{{printf "%.1f" .LastSample.Temperature}} &deg;C</td></tr>
<tr><th>Current</th><td>{{printf "%.2f" .LastSample.Current}} A</td></tr>
<tr><th>Taken</th><td>{{.LastSample.Time.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
</table>
{{end}}

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Slow toggle</th><td>{{.Config.SlowMs}}ms</td></tr>
<tr><th>Fast toggle</th><td>{{.Config.FastMs}}ms</td></tr>
<tr><th>Settle</th><td>{{.Config.SettleMs}}ms</td></tr>
<tr><th>Validate poll</th><td>{{.Config.ValidateMs}}ms</td></tr>
<tr><th>Sample poll</th><td>{{.Config.SampleMs}}ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
