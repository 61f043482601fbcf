/*
Package workers sizes the hash and thumbnail worker pools.

runtime.NumCPU() reports the host's CPU count even when a container
cgroup limits the process to fewer cores, so pool sizes here derive
from GOMAXPROCS, which Go 1.19+ sets from the container limit.

Perceptual hashing is mostly CPU (decode plus pixel compares), so the
ingest pool uses one worker per available CPU. Thumbnail generation
mixes decoding with cache I/O and gets a 1.5x multiplier.

Operators can pin the count with the HASH_WORKERS environment
variable, which overrides the calculation for every pool.
*/
package workers
