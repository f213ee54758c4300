// Package api is the resource access layer of the CRM backend.
//
// A Resolver computes resource URLs, a Transport performs authenticated
// requests, Resource exposes the five CRUD verbs over one collection, and
// Client bundles one specialization per business entity on a shared
// Transport. Every call returns the raw *Response; decoding is left to the
// caller through DecodeJSON and DecodePage.
package api
