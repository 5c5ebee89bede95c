// Package domain holds the core entities of the delivery pipeline:
// contacts with their subscription status, campaigns and their fixed
// recipient sets, the scheduled tasks that dispatch them, and the click
// rows behind tracked links. Entities validate themselves and carry no
// persistence or transport concerns.
package domain
