package preview

import (
	"net/http"
	"strings"
)

const liveReloadTag = `<script async src="/livereload.js"></script>`

// injectLiveReload inserts the LiveReload client before </body> in HTML responses.
func injectLiveReload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if !(path == "" || strings.HasSuffix(path, "/") || strings.HasSuffix(path, ".html")) {
			next.ServeHTTP(w, r)
			return
		}
		inj := &liveReloadInjector{ResponseWriter: w, statusCode: http.StatusOK, maxSize: 2 << 20}
		next.ServeHTTP(inj, r)
		inj.finalize()
	})
}

// liveReloadInjector buffers an HTML response up to maxSize so the script can be
// inserted; anything else, or anything larger, passes through unchanged.
type liveReloadInjector struct {
	http.ResponseWriter
	statusCode    int
	buffer        []byte
	buffering     bool
	headerWritten bool
	passthrough   bool
	maxSize       int
}

func (l *liveReloadInjector) WriteHeader(code int) {
	l.statusCode = code
	if l.passthrough {
		l.ResponseWriter.WriteHeader(code)
		l.headerWritten = true
	}
}

func (l *liveReloadInjector) Write(data []byte) (int, error) {
	if !l.buffering && !l.passthrough {
		ct := l.ResponseWriter.Header().Get("Content-Type")
		if ct != "" && !strings.Contains(ct, "text/html") {
			return l.pass(data)
		}
		l.buffering = true
	}
	if l.passthrough {
		return l.ResponseWriter.Write(data)
	}
	if len(l.buffer)+len(data) > l.maxSize {
		if _, err := l.pass(l.buffer); err != nil {
			return 0, err
		}
		l.buffer = nil
		return l.ResponseWriter.Write(data)
	}
	l.buffer = append(l.buffer, data...)
	return len(data), nil
}

func (l *liveReloadInjector) pass(data []byte) (int, error) {
	l.passthrough = true
	l.ResponseWriter.Header().Del("Content-Length")
	l.ResponseWriter.WriteHeader(l.statusCode)
	l.headerWritten = true
	return l.ResponseWriter.Write(data)
}

func (l *liveReloadInjector) finalize() {
	if l.passthrough {
		return
	}
	if len(l.buffer) == 0 {
		if !l.headerWritten {
			l.ResponseWriter.WriteHeader(l.statusCode)
		}
		return
	}
	body := string(l.buffer)
	if l.statusCode == http.StatusOK {
		body = strings.Replace(body, "</body>", liveReloadTag+"</body>", 1)
	}
	l.ResponseWriter.Header().Del("Content-Length")
	l.ResponseWriter.WriteHeader(l.statusCode)
	_, _ = l.ResponseWriter.Write([]byte(body))
}
