package http

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

const consoleCSS = `
@import url('https://fonts.googleapis.com/css2?family=Rajdhani:wght@400;600&family=Share+Tech+Mono&display=swap');
body{margin:0;min-height:100vh;background:linear-gradient(135deg,#140f0a 0%,#1e190f 50%,#140f0a 100%);color:#d4af37;font-family:'Rajdhani','Share Tech Mono',monospace;}
h1{margin:0;padding:16px 24px;font-size:26px;letter-spacing:1px;border-bottom:1px solid rgba(218,165,32,.4);}
.layout{display:flex;gap:16px;padding:16px 24px;flex-wrap:wrap;}
.comms{flex:2;min-width:320px;}
.tactical{flex:3;min-width:360px;}
.status{background:rgba(15,10,5,.95);border:2px solid rgba(218,165,32,.6);border-radius:8px;padding:12px 16px;font-family:'Share Tech Mono',monospace;font-size:12px;margin-bottom:12px;}
.online{color:#00ff41}.offline{color:#ff4444}
#log{height:400px;overflow-y:auto;background:rgba(0,0,0,.55);border:1px solid rgba(218,165,32,.4);border-radius:8px;padding:8px 12px;}
.msg{white-space:pre-wrap;margin:8px 0;}
.msg.user{color:#cd853f}.msg.aria{color:#e8d9a8}
.row{display:flex;gap:8px;margin-top:8px;}
input{flex:6;background:#0f0a05;border:1px solid #8B4513;color:#d4af37;padding:8px;font-family:inherit;}
button{flex:1;background:#2c1810;border:1px solid #daa520;color:#d4af37;padding:8px;cursor:pointer;font-family:inherit;font-weight:600;}
button.stop{background:#5a0d0d;border-color:#ff4444;}
button:hover{filter:brightness(1.3);}
iframe{width:100%;height:520px;border:2px solid rgba(218,165,32,.6);border-radius:8px;background:#000;}
`

const consoleHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>SurviveTrack - The Last of Us: Karachi</title>
<style>{{.CSS}}</style>
</head>
<body>
<h1>☣ SurviveTrack – Post-Apocalyptic Karachi Intelligence System</h1>
<div class="layout">
  <div class="comms">
    <div class="status">
      🎙️ <strong>COMMUNICATION LINK ESTABLISHED</strong><br>
      📡 SYSTEM STATUS: <span class="online">OPERATIONAL</span><br>
      🤖 ARIA AI: {{if .Online}}<span class="online">ONLINE ({{.Model}})</span>{{else}}<span class="offline">OFFLINE</span>{{end}}<br>
      🗺️ MAP SYSTEM: <span class="online">{{.Renderer}}</span><br>
      🆘 EMERGENCY SYSTEM: <span class="online">STANDBY</span>
    </div>
    <div id="log"><div class="msg aria">🤖 SurviveTrack fully operational! Interactive maps, AI assistance, and SOS features ready for deployment.</div></div>
    <div class="row">
      <input id="msg" placeholder="🎯 [ENCRYPTED COMMS] Zone designation (A|B|C) or tactical query..." maxlength="2000">
      <button id="send">📻 RELAY</button>
    </div>
    <div class="row">
      {{range .Zones}}<button data-zone="{{.}}">⚠ {{.}}</button>{{end}}
      <button id="resources">📦 RESOURCES</button>
    </div>
    <div class="row">
      <button id="sos" class="stop">🆘 REQUEST AID</button>
      <button id="aid">🔍 LOCATE AID</button>
    </div>
  </div>
  <div class="tactical">
    <iframe id="map" title="Tactical map" sandbox="allow-scripts"></iframe>
  </div>
</div>
<script>
(function() {
  var log = document.getElementById("log");
  var map = document.getElementById("map");
  function add(cls, text) {
    if (!text) { return; }
    var d = document.createElement("div");
    d.className = "msg " + cls;
    d.textContent = text;
    log.appendChild(d);
    log.scrollTop = log.scrollHeight;
  }
  function show(reply) {
    add("user", reply.prompt);
    add("aria", reply.text);
    if (reply.markup) { map.srcdoc = reply.markup; }
  }
  function call(method, path, body) {
    var opts = {method: method, headers: {"Content-Type": "application/json"}};
    if (body) { opts.body = JSON.stringify(body); }
    return fetch(path, opts).then(function(r) { return r.json(); }).then(function(data) {
      if (data.code) { add("aria", "⚠️ " + data.message); return; }
      show(data);
    }).catch(function(e) { add("aria", "📡 Link failure: " + e); });
  }
  fetch("/v1/map/overview").then(function(r) { return r.text(); }).then(function(html) { map.srcdoc = html; });
  var input = document.getElementById("msg");
  function send() {
    var text = input.value; input.value = "";
    call("POST", "/v1/chat", {message: text});
  }
  document.getElementById("send").onclick = send;
  input.addEventListener("keydown", function(e) { if (e.key === "Enter") { send(); } });
  document.querySelectorAll("button[data-zone]").forEach(function(b) {
    b.onclick = function() { call("POST", "/v1/zones/" + encodeURIComponent(b.dataset.zone) + "/brief"); };
  });
  document.getElementById("resources").onclick = function() { call("POST", "/v1/resources/scan"); };
  document.getElementById("sos").onclick = function() { call("POST", "/v1/sos"); };
  document.getElementById("aid").onclick = function() { call("GET", "/v1/aid"); };
})();
</script>
</body>
</html>`

var consoleTmpl = template.Must(template.New("console").Parse(consoleHTML))

type consolePage struct {
	CSS      template.CSS
	Online   bool
	Model    string
	Renderer string
	Zones    []string
}

// ConsoleHandler serves the chat console page.
func ConsoleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := deps.ARIA.Status()
		var buf bytes.Buffer
		err := consoleTmpl.Execute(&buf, consolePage{
			CSS:      template.CSS(consoleCSS),
			Online:   st.Online,
			Model:    st.Model,
			Renderer: deps.Maps.Name(),
			Zones:    deps.Atlas.Keys(),
		})
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		c.Set(fiber.HeaderCacheControl, "no-cache")
		return c.Send(buf.Bytes())
	}
}
