package app

import "net/http"

// handleHome serves a small HTML index of the API.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	homeHTML := `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>newsdesk</title>
	<style>
		* { margin: 0; padding: 0; box-sizing: border-box; }
		body {
			font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', system-ui, sans-serif;
			background: #f4f5f7;
			padding: 20px;
		}
		.container {
			max-width: 900px;
			margin: 0 auto;
			background: white;
			border-radius: 12px;
			padding: 40px;
		}
		h1 { color: #1f3a64; margin-bottom: 10px; }
		.subtitle { color: #666; margin-bottom: 30px; }
		li { margin: 8px 0; list-style: none; }
		code {
			background: #f1f3f4;
			padding: 3px 8px;
			border-radius: 4px;
			font-family: 'Courier New', monospace;
			font-size: 0.9em;
		}
	</style>
</head>
<body>
	<div class="container">
		<h1>newsdesk</h1>
		<p class="subtitle">Cached news, article bodies, stock quotes and home page widgets.</p>
		<ul>
			<li><code>GET /api/home?city=&amp;lat=&amp;lon=&amp;unit=&amp;sign=</code></li>
			<li><code>GET /api/articles</code> and <code>DELETE /api/articles/cache</code></li>
			<li><code>GET /api/articles/{category}</code></li>
			<li><code>GET|POST /api/articles/{category}/{id}</code></li>
			<li><code>GET /api/article?url=</code></li>
			<li><code>GET /api/stocks</code> and <code>GET /api/stocks/{symbol}</code></li>
			<li><code>GET /api/weather?city=</code></li>
			<li><code>GET /api/horoscope?sign=</code></li>
			<li><code>GET /feed/{category}?limit=</code></li>
		</ul>
	</div>
</body>
</html>`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(homeHTML))
}
