// Package alpaca is a client for the Alpaca trading and market data REST APIs.
//
// Every call made through a Client draws one token from a bucket owned by that
// client. When the bucket is empty the call waits, re-checking once per poll
// interval, until a token is available or its context is done. Nothing is
// retried: a 429 from the server is returned to the caller like any other
// non-2xx response.
//
// API Documentation: https://docs.alpaca.markets/reference
package alpaca
