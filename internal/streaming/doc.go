/*
Package streaming writes cataloged video files to HTTP clients.

[ServeFile] opens the file through the filesystem package's NFS retry
helpers and hands it to http.ServeContent, which answers Range,
If-Modified-Since and HEAD requests. Each write first moves the connection's
write deadline forward by [Config.WriteTimeout] through
http.ResponseController, so a client that stops reading is dropped instead of
pinning a goroutine and a file descriptor.

# Errors

Failures before the first byte is written are reported as [*OpenError]:

	err := streaming.ServeFile(w, r, res.Path, res.ContentType, streaming.DefaultConfig())
	var openErr *streaming.OpenError
	if errors.As(err, &openErr) {
		http.Error(w, "Failed to open video", http.StatusInternalServerError)
	}

After streaming has started the response status is already sent; errors are
returned for logging only. [ErrClientGone] is expected whenever a player
seeks or closes a tab.
*/
package streaming
