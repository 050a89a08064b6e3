package window

import "net/http"

func (p *Preview) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(viewerHTML))
}

const viewerHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>arcrender preview</title>
<style>body{margin:0;background:#111;color:#ccc;font:12px monospace}canvas{display:block;margin:auto;image-rendering:pixelated}</style>
</head>
<body>
<canvas id="c"></canvas>
<p><span id="s">connecting</span> <button id="x">close</button></p>
<script>
const c = document.getElementById("c"), g = c.getContext("2d"), s = document.getElementById("s");
const frames = new WebSocket("ws://" + location.host + "/ws");
const ctl = new WebSocket("ws://" + location.host + "/control");
frames.onmessage = (e) => {
  const m = JSON.parse(e.data);
  if (m.type !== "frame") return;
  c.width = m.w; c.height = m.h;
  const rgb = Uint8Array.from(atob(m.rgb), (ch) => ch.charCodeAt(0));
  const img = g.createImageData(m.w, m.h);
  for (let i = 0, j = 0; i < rgb.length; i += 3, j += 4) {
    img.data[j] = rgb[i]; img.data[j+1] = rgb[i+1]; img.data[j+2] = rgb[i+2]; img.data[j+3] = 255;
  }
  g.putImageData(img, 0, 0);
  s.textContent = "frame " + m.frame_id;
};
frames.onclose = () => { s.textContent = "closed"; };
document.getElementById("x").onclick = () => ctl.send(JSON.stringify({cmd: "close"}));
</script>
</body>
</html>
`
