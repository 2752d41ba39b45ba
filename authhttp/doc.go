// Package authhttp hosts authentication strategies over net/http.
//
// LoginHandler turns any auth.Strategy into an http.Handler for a login
// endpoint: it normalizes the request body (form, multipart, or JSON)
// into the string-keyed form strategies read, drives the strategy, and
// translates the reported outcome into an HTTP response. Applications
// hook the outcome translation to establish their own sessions:
//
//	handler, err := authhttp.LoginHandler(strategy, authhttp.LoginConfig{
//	    OnSuccess: func(w http.ResponseWriter, r *http.Request, user any, info auth.Info) {
//	        account := user.(*Account)
//	        sessions.Issue(w, account)
//	        w.Header().Set("Content-Type", "application/json")
//	        json.NewEncoder(w).Encode(account)
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.Handle("/auth/browserid", handler)
//
// Defaults when no hooks are set: Success responds 200 with a small
// JSON body, Fail responds with the outcome's suggested status (401
// when it has none) and a WWW-Authenticate challenge named after the
// strategy, and Error responds 500 without echoing the cause; the
// cause goes to the structured log, never to the client.
//
// Every attempt is tagged with a UUID, returned in the X-Auth-Attempt
// response header and attached to every log record, so a client-side
// failure report can be matched to server logs.
package authhttp
