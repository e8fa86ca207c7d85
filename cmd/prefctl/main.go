// Command prefctl inspects and edits the preference store described by a
// device config file.
package main

func main() {
	execute()
}
