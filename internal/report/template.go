package report

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Traceroute and Packet Loss Averages</title>
    <style>
        table { width: 100%; border-collapse: collapse; }
        th, td { border: 1px solid black; padding: 8px; text-align: center; }
        th { background-color: #f2f2f2; }
        img { max-width: 100%; height: auto; }
    </style>
</head>
<body>
    <h1>Packet Loss Averages and Graphs</h1>
    <p>Generated {{.Generated.Format "2006-01-02 15:04:05 MST"}}</p>
{{range .Connections}}
    <h2>{{.ConnectionName}}</h2>
    <table>
        <tr>
            <th>Time Period</th>
            <th>Average Packet Loss (%)</th>
        </tr>
{{- range .Averages}}
        <tr>
            <td>{{.Window}}</td>
            <td>{{printf "%.2f" .PacketLoss}}</td>
        </tr>
{{- end}}
    </table>
    <h3>Packet Loss Over Time</h3>
{{- if .Graph}}
    <img src="{{.Graph}}" alt="Packet Loss Graph for {{.ConnectionName}}">
{{- else}}
    <p>No data available to generate graph.</p>
{{- end}}
{{end}}
    <p><em>
    Disclaimer: this page is an independent resource that tracks internet connectivity and packet
    loss for personal and informational purposes. It is not affiliated with or endorsed by any
    network provider. Results are measured from a single point in the network and are not
    representative of network performance as a whole.
    </em></p>
</body>
</html>
`))
