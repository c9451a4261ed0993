package quad

// Rule is a Gauss-Kronrod pair. Xgk holds the non-negative Kronrod nodes in
// decreasing order ending with the centre; nodes at odd indices are shared
// with the Gauss rule, whose weights are Wg. GaussCentre is the Gauss weight
// of the centre node, zero when the Gauss rule has an even number of points.
type Rule struct {
	Name        string
	Xgk         []float64
	Wgk         []float64
	Wg          []float64
	GaussCentre float64
}

// GK15 is the 7-point Gauss, 15-point Kronrod pair.
var GK15 = Rule{
	Name: "GK15",
	Xgk: []float64{
		0.991455371120812639206854697526329,
		0.949107912342758524526189684047851,
		0.864864423359769072789712788640926,
		0.741531185599394439863864773280788,
		0.586087235467691130294144845693013,
		0.405845151377397166906606412076961,
		0.207784955007898467600689403773245,
		0,
	},
	Wgk: []float64{
		0.022935322010529224963732008058970,
		0.063092092629978553290700663189204,
		0.104790010322250183839876322541518,
		0.140653259715525918745189590510238,
		0.169004726639267902826583426598550,
		0.190350578064785409913256402421014,
		0.204432940075298892414161999234649,
		0.209482141084727828012999174891714,
	},
	Wg: []float64{
		0.129484966168869693270611432679082,
		0.279705391489276667901467771423780,
		0.381830050505118944950369775488975,
	},
	GaussCentre: 0.417959183673469387755102040816327,
}

// GK21 is the 10-point Gauss, 21-point Kronrod pair.
var GK21 = Rule{
	Name: "GK21",
	Xgk: []float64{
		0.995657163025808080735527280689003,
		0.973906528517171720077964012084452,
		0.930157491355708226001207180059508,
		0.865063366688984510732096688423493,
		0.780817726586416897063717578345042,
		0.679409568299024406234327365114874,
		0.562757134668604683339000099272694,
		0.433395394129247190799265943165784,
		0.294392862701460198131126603103866,
		0.148874338981631210884826001129720,
		0,
	},
	Wgk: []float64{
		0.011694638867371874278064396062192,
		0.032558162307964727478818972459390,
		0.054755896574351996031381300244580,
		0.075039674810919952767043140916190,
		0.093125454583697605535065465083366,
		0.109387158802297641899210590325805,
		0.123491976262065851077582534438811,
		0.134709217311473325928054001771707,
		0.142775938577060080797094273138717,
		0.147739104901338491374841515972068,
		0.149445554002916905664936468389821,
	},
	Wg: []float64{
		0.066671344308688137593568809893332,
		0.149451349150580593145776339657697,
		0.219086362515982043995534934228163,
		0.269266719309996355091226921569469,
		0.295524224714752870173892994651338,
	},
}

// Points is the number of integrand evaluations per panel.
func (r Rule) Points() int { return 2*len(r.Xgk) - 1 }
