// Package formats parses asset sources and reads and writes the engine's
// artifact documents.
//
// Sources:
//   - OBJ geometry (obj.go), restricted to triangles with full
//     position/texcoord/normal references
//
// Artifacts, all canonical JSON (document.go):
//   - vertex and index buffers, render meshes, collision shapes and
//     textures (mesh.go)
//   - shader descriptors (shader.go)
package formats
