// Command orgchart browses, searches and renders an organization chart built
// from a flat CSV of people.
package main

func main() {
	Execute()
}
