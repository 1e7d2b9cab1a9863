// Package strategy supplies the five daily cost-tuning weights consulted by
// the assignment optimizer. Predictors are pure lookups: the same conditions
// always yield the same weights.
package strategy
