// Package artifacts manages the on-disk library of generated media: saving
// downloaded engine outputs under timestamped local names, listing what is on
// disk, and mapping files to the URLs the web app serves them under.
//
// Files are stored flat per kind (images and videos each get one directory)
// and named generated_<epochMillis>_<originalName> so local names never
// collide even when the engine reuses output filenames.
package artifacts
