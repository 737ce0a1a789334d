// Package io provides JSON import and export for canvas snapshots.
//
// # Overview
//
// A snapshot captures the canvas dimensions, the layout mode, and every
// container's geometry in creation order. The format is designed for:
//
//   - Seeding a server with a previously saved canvas
//   - Handing layouts to external tools that consume plain JSON
//   - Round-trip preservation: export, import, and re-export identically
//
// # JSON Format
//
// The format has a canvas object and a containers array:
//
//	{
//	  "canvas": {"width": 800, "height": 600},
//	  "mode": "auto",
//	  "containers": [
//	    {"id": "a", "x": 77, "y": 62, "width": 646, "height": 476}
//	  ]
//	}
//
// Container order in the array is creation order; importers must
// preserve it because automatic layouts assign cells by that order.
package io
