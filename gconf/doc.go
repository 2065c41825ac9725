/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps its configuration as a single entity, stored under the
"_c:<package name>" key. The configuration is loaded from the genesis file
and can later be changed by its owner using an update configuration message.
*/
package gconf
