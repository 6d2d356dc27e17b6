// Package pkg provides the core libraries for kleviz keyboard layout rendering.
//
// # Overview
//
// kleviz turns keyboard-layout-editor (KLE) descriptions into pictures. The
// pkg directory is organized into three areas:
//
//  1. Domain: [kle] (data model and loader), [geom], [layout] (key bounds and
//     normalization), [scene] (serializable element tree) and render
//     (keycap geometry plus the svg, png, json and html sinks)
//  2. Infrastructure: [cache], [config], [errors], [io], [observability]
//  3. Orchestration: [pipeline] (load → normalize → render, batches)
//
// # Architecture
//
//	KLE JSON / raw data
//	         ↓
//	    [kle] package (parse rows, carry cursor and rotation state)
//	         ↓
//	    [layout] package (bounds, shift into the first quadrant)
//	         ↓
//	    render/keycap + render/sink (scene tree or draw calls)
//	         ↓
//	SVG/PNG/JSON/HTML output
//
// # Quick Start
//
//	kb, err := kle.Parse(data)
//	if err != nil {
//	    return err
//	}
//	artifacts, err := pipeline.Render(kb, pipeline.Options{Formats: []string{"svg", "png"}})
package pkg
