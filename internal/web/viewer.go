package web

import "fmt"

// viewerPage renders the self-contained HTML viewer. It polls the JSON
// record (cache-busted), shows the key with a copy button, and counts down
// to the next rotation; when the countdown hits zero it re-fetches.
func viewerPage(recordFile string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Server Key</title>
<style>
body { font-family: sans-serif; background: #1e3a8a; color: #333; display: flex; justify-content: center; align-items: center; min-height: 100vh; margin: 0; }
.card { background: #fff; border-radius: 12px; padding: 30px; max-width: 420px; width: 100%%; text-align: center; box-shadow: 0 10px 25px rgba(0,0,0,.15); }
.key { font-family: monospace; font-size: 32px; letter-spacing: 3px; color: #1e3a8a; margin: 16px 0; }
.countdown { font-family: monospace; font-size: 24px; margin: 12px 0; }
.hint { color: #64748b; font-size: 14px; }
button { background: #1e3a8a; color: #fff; border: none; border-radius: 20px; padding: 12px 24px; font-size: 15px; cursor: pointer; }
button:hover { background: #0f1e4d; }
</style>
</head>
<body>
<div class="card">
<h1>Server Key</h1>
<div class="key" id="key">loading&hellip;</div>
<button onclick="copyKey()" id="copy">copy key</button>
<h2>Next rotation</h2>
<div class="countdown" id="countdown">--:--:--</div>
<p class="hint">Verify in-game with <code>/key &lt;key&gt;</code>. Do not share the key in public chat.</p>
</div>
<script>
let nextUpdate = 0;
let ticker = null;

async function load() {
  try {
    const resp = await fetch('%s?' + Date.now());
    const data = await resp.json();
    document.getElementById('key').textContent = data.key;
    nextUpdate = data.nextUpdate;
    if (!ticker) ticker = setInterval(tick, 1000);
    tick();
  } catch (err) {
    document.getElementById('key').textContent = 'unavailable';
  }
}

function tick() {
  const left = nextUpdate - Date.now();
  if (left <= 0) {
    // stop the countdown while the server rotates, retry at a slow pace
    if (ticker) { clearInterval(ticker); ticker = null; }
    document.getElementById('countdown').textContent = 'rotating…';
    setTimeout(load, 10000);
    return;
  }
  const h = Math.floor(left / 3600000);
  const m = Math.floor(left %% 3600000 / 60000);
  const s = Math.floor(left %% 60000 / 1000);
  document.getElementById('countdown').textContent =
    String(h).padStart(2, '0') + ':' + String(m).padStart(2, '0') + ':' + String(s).padStart(2, '0');
}

function copyKey() {
  const key = document.getElementById('key').textContent;
  navigator.clipboard.writeText(key).then(() => {
    const btn = document.getElementById('copy');
    btn.textContent = 'copied';
    setTimeout(() => { btn.textContent = 'copy key'; }, 2000);
  });
}

load();
setInterval(load, 5 * 60 * 1000);
</script>
</body>
</html>
`, recordFile)
}
