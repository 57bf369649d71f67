package reporter

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

const htmlTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Stack Advisor Report - {{.ClusterName}}</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #333;
            padding: 20px;
            line-height: 1.6;
        }
        .container {
            max-width: 1400px;
            margin: 0 auto;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0, 0, 0, 0.1);
            overflow: hidden;
        }
        .header {
            background: linear-gradient(135deg, #2e7d32 0%, #1b5e20 100%);
            color: white;
            padding: 50px 40px;
        }
        .header h1 {
            font-size: 2.4em;
            margin-bottom: 15px;
        }
        .header .meta {
            opacity: 0.95;
            font-size: 1.1em;
        }
        .summary {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(280px, 1fr));
            gap: 25px;
            padding: 40px;
            background: linear-gradient(to bottom, #f8f9fa 0%, #fff 100%);
        }
        .summary-card {
            background: white;
            padding: 30px;
            border-radius: 12px;
            border: 2px solid #e8eaed;
        }
        .summary-card h3 {
            color: #5f6368;
            font-size: 0.85em;
            text-transform: uppercase;
            letter-spacing: 1.5px;
            margin-bottom: 15px;
        }
        .summary-card .value {
            font-size: 3em;
            font-weight: 700;
            line-height: 1;
        }
        .summary-card.writes { border-left: 6px solid #326ce5; }
        .summary-card.writes .value { color: #326ce5; }
        .summary-card.errors { border-left: 6px solid #ea4335; }
        .summary-card.errors .value { color: #ea4335; }
        .summary-card.warnings { border-left: 6px solid #fbbc04; }
        .summary-card.warnings .value { color: #fbbc04; }
        .section {
            padding: 40px;
            border-top: 1px solid #e8eaed;
        }
        .section h2 {
            font-size: 1.6em;
            margin-bottom: 25px;
            color: #202124;
        }
        table {
            width: 100%;
            border-collapse: collapse;
        }
        th {
            background: #f8f9fa;
            text-align: left;
            padding: 12px 15px;
            font-size: 0.85em;
            text-transform: uppercase;
            color: #5f6368;
        }
        td {
            padding: 12px 15px;
            border-bottom: 1px solid #e8eaed;
            vertical-align: top;
        }
        code {
            font-family: 'SFMono-Regular', Consolas, monospace;
            font-size: 0.9em;
            word-break: break-all;
        }
        .level-badge {
            display: inline-block;
            padding: 4px 12px;
            border-radius: 12px;
            font-size: 0.8em;
            font-weight: 600;
        }
        .level-error { background: #fce8e6; color: #c5221f; }
        .level-warn { background: #fef7e0; color: #b06000; }
        .footer {
            padding: 30px;
            text-align: center;
            color: #5f6368;
            background: #f8f9fa;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Stack Advisor Report</h1>
            <div class="meta">
                <p><strong>Cluster:</strong> {{.ClusterName}} | <strong>Stack:</strong> {{.StackName}}-{{.StackVersion}} | <strong>Action:</strong> {{.Action}}</p>
                <p><strong>Generated:</strong> {{.GeneratedAt.Format "January 2, 2006 15:04:05 MST"}}{{if .RunID}} | <strong>Run:</strong> {{.RunID}}{{end}}</p>
            </div>
        </div>

        <div class="summary">
            <div class="summary-card writes">
                <h3>Recommended Properties</h3>
                <div class="value">{{len .Writes}}</div>
            </div>
            <div class="summary-card errors">
                <h3>Errors</h3>
                <div class="value">{{.ErrorCount}}</div>
            </div>
            <div class="summary-card warnings">
                <h3>Warnings</h3>
                <div class="value">{{.WarningCount}}</div>
            </div>
        </div>

        {{if .ConfigTypeStats}}
        <div class="section">
            <h2>By Config Type</h2>
            <table>
                <thead>
                    <tr><th>Config Type</th><th>Writes</th><th>Errors</th><th>Warnings</th></tr>
                </thead>
                <tbody>
                    {{range .ConfigTypeStats}}
                    <tr><td><strong>{{.ConfigType}}</strong></td><td>{{.Writes}}</td><td>{{.Errors}}</td><td>{{.Warnings}}</td></tr>
                    {{end}}
                </tbody>
            </table>
        </div>
        {{end}}

        {{if .Findings}}
        <div class="section">
            <h2>Findings</h2>
            <table>
                <thead>
                    <tr><th>Level</th><th>Config Type</th><th>Property</th><th>Message</th></tr>
                </thead>
                <tbody>
                    {{range .Findings}}
                    <tr>
                        <td><span class="level-badge level-{{.Level | lower}}">{{.Level}}</span></td>
                        <td>{{.ConfigType}}</td>
                        <td><code>{{.ConfigName}}</code></td>
                        <td>{{.Message}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
        </div>
        {{end}}

        {{if .Writes}}
        <div class="section">
            <h2>Recommended Properties</h2>
            <table>
                <thead>
                    <tr><th>Config Type</th><th>Property</th><th>Value</th></tr>
                </thead>
                <tbody>
                    {{range .Writes}}
                    <tr><td>{{.ConfigType}}</td><td><code>{{.Name}}</code></td><td><code>{{.Value}}</code></td></tr>
                    {{end}}
                </tbody>
            </table>
        </div>
        {{end}}

        {{if .Errors}}
        <div class="section">
            <h2>Errors</h2>
            <ul>
                {{range .Errors}}<li>{{.}}</li>{{end}}
            </ul>
        </div>
        {{end}}

        <div class="footer">
            <p>Generated by <strong>stack-advisor</strong></p>
        </div>
    </div>
</body>
</html>
`

// GenerateHTML creates an HTML report
func GenerateHTML(report *Report, writer io.Writer) error {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"lower": func(s interface{}) string {
			return strings.ToLower(fmt.Sprintf("%v", s))
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(writer, report); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}
