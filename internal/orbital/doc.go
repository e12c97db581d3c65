// Package orbital is a small two-body toolkit: Keplerian element
// conversion, Hohmann transfers and Cowell propagation with optional J2,
// stepped by the same generic RK4 as the flight simulator.
package orbital
