// Package instantiate builds objects from a type name and a flat map of
// string values. Types are described up front by a TypeDescriptor listing
// their constructors, settable members and behaviors; the Creator picks
// the first constructor whose parameters are all present in the map,
// converts the matching strings, and binds every remaining key to a
// member or behavior of the new instance.
//
// Example usage:
//
//	reg := instantiate.NewRegistry()
//	instantiate.Describe[*Console]("console").
//	    Constructor(func(a instantiate.Args) (*Console, error) {
//	        return NewConsole(a.String(0)), nil
//	    }, instantiate.P("name", instantiate.String)).
//	    Scalar("enabled", instantiate.Bool, instantiate.Setter((*Console).SetEnabled)).
//	    MustRegister(reg)
//	reg.Freeze()
//
//	c := instantiate.NewCreator(reg)
//	obj, err := c.Create("console", map[string]string{"name": "out", "enabled": "false"})
//
// List values are separated by '|'. Behavior values are comma separated
// "param:value" assignments. Neither grammar supports escaping.
package instantiate
