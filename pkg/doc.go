// Package pkg provides the core libraries for dbccheck, the DBC layout
// precheck.
//
// # Overview
//
// dbccheck verifies that the IGBT and FWD dies of a parametric direct bonded
// copper (DBC) substrate lie inside the copper zone they are wired to and do
// not overlap each other. The pkg directory is organized into three areas:
//
//  1. Domain: [design], [geometry], [zone], [chip], [topology], [check], [report]
//  2. Orchestration: [pipeline] (load, build, bind, detect, cache)
//  3. Infrastructure: [cache], [store], [export], [observability], [errors], [buildinfo]
//
// # Architecture
//
// The data flow through a precheck:
//
//	design JSON/YAML
//	         ↓
//	    [design] package (parse + normalize to absolute units)
//	         ↓
//	    [zone] package (copper zones from substrate, gates and cuts)
//	    [chip] package (die footprints from positions and rotations)
//	         ↓
//	    [topology] package (chip → zone binding)
//	         ↓
//	    [check] package (containment and overlap detection)
//	         ↓
//	    [report] package (JSON verdict)
//
// # Quick Start
//
//	d, err := design.Load("module.json")
//	if err != nil {
//	    return err
//	}
//	res, err := pipeline.Check(d, pipeline.DefaultExtreme)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Report.Summary)
package pkg
