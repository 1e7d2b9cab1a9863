// Package optimizer builds and solves the daily duty assignment problem.
//
// Every vehicle receives exactly one of SERVICE, MAINTENANCE or STANDBY.
// Hard constraints encode safety rules (expired certificates and critical
// job cards never run, low-health vehicles are sent to maintenance, the
// service count is capped) and are re-checked on every returned plan.
// All cost terms are integers so objectives are exactly reproducible.
//
// Two solvers are provided. ExactSolver runs a dynamic programme over the
// service and maintenance counts and is always optimal. LPSolver solves the
// same problem as a totally unimodular linear program with gonum and falls
// back to ExactSolver whenever the LP result cannot be trusted.
package optimizer
